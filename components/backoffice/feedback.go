package backoffice

import (
	"sync"
	"time"
)

// Severity classifies a feedback message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

const (
	// DefaultFeedbackTTL is how long snackbar style messages stay visible.
	DefaultFeedbackTTL = 6 * time.Second
	// NoExpiry keeps messages visible until dismissed (inline alerts).
	NoExpiry time.Duration = -1
)

// Message is a single user visible status line.
type Message struct {
	Text      string    `json:"text"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// IsZero reports whether the message is the empty (dismissed) value.
func (m Message) IsZero() bool {
	return m.Text == "" && m.Severity == ""
}

// Notifier is the write side of the feedback channel used by controllers.
type Notifier interface {
	Notify(text string, severity Severity) Message
}

// FeedbackOptions configures a Feedback channel.
type FeedbackOptions struct {
	TTL   time.Duration
	Clock Clock
}

// Feedback holds at most one visible message. A new message replaces the
// previous one; there is no queue.
type Feedback struct {
	mu      sync.RWMutex
	ttl     time.Duration
	clock   Clock
	current Message
	seq     uint64
	timer   *time.Timer
	subs    map[int]chan Message
	next    int
}

// NewFeedback builds a feedback channel. A zero TTL selects DefaultFeedbackTTL,
// NoExpiry disables auto-dismiss.
func NewFeedback(opts FeedbackOptions) *Feedback {
	ttl := opts.TTL
	if ttl == 0 {
		ttl = DefaultFeedbackTTL
	}
	return &Feedback{
		ttl:   ttl,
		clock: normalizeClock(opts.Clock),
		subs:  make(map[int]chan Message),
	}
}

// Notify replaces the visible message and schedules its dismissal.
func (f *Feedback) Notify(text string, severity Severity) Message {
	now := f.clock.Now()
	msg := Message{Text: text, Severity: severity, CreatedAt: now}
	if f.ttl > 0 {
		msg.ExpiresAt = now.Add(f.ttl)
	}

	f.mu.Lock()
	f.seq++
	seq := f.seq
	f.current = msg
	f.stopTimerLocked()
	if f.ttl > 0 {
		f.timer = time.AfterFunc(f.ttl, func() { f.expire(seq) })
	}
	f.broadcastLocked(msg)
	f.mu.Unlock()
	return msg
}

// Success is shorthand for Notify(text, SeveritySuccess).
func (f *Feedback) Success(text string) Message { return f.Notify(text, SeveritySuccess) }

// Error is shorthand for Notify(text, SeverityError).
func (f *Feedback) Error(text string) Message { return f.Notify(text, SeverityError) }

// Warning is shorthand for Notify(text, SeverityWarning).
func (f *Feedback) Warning(text string) Message { return f.Notify(text, SeverityWarning) }

// Info is shorthand for Notify(text, SeverityInfo).
func (f *Feedback) Info(text string) Message { return f.Notify(text, SeverityInfo) }

// Dismiss clears the visible message immediately.
func (f *Feedback) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.stopTimerLocked()
	if f.current.IsZero() {
		return
	}
	f.current = Message{}
	f.broadcastLocked(Message{})
}

// Current returns the visible message, if any.
func (f *Feedback) Current() (Message, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.current.IsZero() {
		return Message{}, false
	}
	if !f.current.ExpiresAt.IsZero() && !f.clock.Now().Before(f.current.ExpiresAt) {
		return Message{}, false
	}
	return f.current, true
}

// Subscribe returns a channel receiving every displayed message (the zero
// Message signals a dismissal) and a cancel func.
func (f *Feedback) Subscribe() (<-chan Message, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	ch := make(chan Message, 8)
	f.subs[id] = ch
	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if sub, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (f *Feedback) expire(seq uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.seq || f.current.IsZero() {
		return
	}
	f.current = Message{}
	f.timer = nil
	f.broadcastLocked(Message{})
}

func (f *Feedback) stopTimerLocked() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

func (f *Feedback) broadcastLocked(msg Message) {
	for _, ch := range f.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}
