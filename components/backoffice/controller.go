package backoffice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// ActionSpec registers a non-CRUD endpoint (deactivate, approve, send, ...).
type ActionSpec struct {
	Name  string
	Label string
	// Confirm routes the action through the confirmation gate before the call.
	Confirm bool
	Prompt  string
	// SkipReload leaves the list untouched after success.
	SkipReload bool
	// Success builds the success text from the response; nil uses a generic one.
	Success func(ActionResult) string
}

// Options configures a Controller. Remote is required; Schema is required for
// create/edit dialogs.
type Options[T Identifiable[ID], ID comparable] struct {
	Name      string
	Plural    string
	Remote    Remote[T, ID]
	Schema    *FormSchema
	Feedback  Notifier
	Confirmer Confirmer
	Telemetry Telemetry
	Actions   []ActionSpec
	// DeletePrompt replaces the default delete confirmation text.
	DeletePrompt string
	// Less orders the list after every load; nil keeps the backend order.
	Less func(a, b T) bool
}

// Focus is the item currently open in a dialog.
type Focus[T Identifiable[ID], ID comparable] struct {
	Mode       Mode
	OriginalID ID
	Original   T
	Form       *Form
}

// State is a point-in-time snapshot of a controller.
type State[T Identifiable[ID], ID comparable] struct {
	Items      []T
	Loading    bool
	Submitting bool
	Phase      Phase
	Filter     Filter
	Focus      Focus[T, ID]
}

// Controller owns one entity's list, the focused dialog item and the
// load/submit/remove/action lifecycle. Every failure is reported through the
// feedback channel and leaves the controller re-enterable.
type Controller[T Identifiable[ID], ID comparable] struct {
	opts    Options[T, ID]
	actions map[string]ActionSpec

	mu         sync.Mutex
	items      []T
	inflight   int
	loaded     bool
	submitting bool
	confirming bool
	filter     Filter
	focus      Focus[T, ID]
	closed     bool

	lifetime context.Context
	cancel   context.CancelFunc
}

// NewController builds a controller. The list starts empty and loading until
// the first Load settles.
func NewController[T Identifiable[ID], ID comparable](opts Options[T, ID]) (*Controller[T, ID], error) {
	if opts.Remote == nil {
		return nil, errors.New("backoffice: controller remote is required")
	}
	if opts.Name == "" {
		opts.Name = "item"
	}
	if opts.Plural == "" {
		opts.Plural = opts.Name + "s"
	}
	if opts.Feedback == nil {
		opts.Feedback = NewFeedback(FeedbackOptions{})
	}
	opts.Confirmer = normalizeConfirmer(opts.Confirmer)
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	actions := make(map[string]ActionSpec, len(opts.Actions))
	for _, spec := range opts.Actions {
		if spec.Name == "" {
			return nil, fmt.Errorf("backoffice: %s action name is required", opts.Name)
		}
		if spec.Label == "" {
			spec.Label = spec.Name
		}
		actions[spec.Name] = spec
	}
	lifetime, cancel := context.WithCancel(context.Background())
	return &Controller[T, ID]{
		opts:     opts,
		actions:  actions,
		inflight: 0,
		lifetime: lifetime,
		cancel:   cancel,
	}, nil
}

// Name returns the singular entity label.
func (c *Controller[T, ID]) Name() string { return c.opts.Name }

// Actions lists the registered custom actions in registration order.
func (c *Controller[T, ID]) Actions() []ActionSpec {
	out := make([]ActionSpec, 0, len(c.opts.Actions))
	for _, spec := range c.opts.Actions {
		out = append(out, c.actions[spec.Name])
	}
	return out
}

// Feedback exposes the channel messages are written to.
func (c *Controller[T, ID]) Feedback() Notifier { return c.opts.Feedback }

// Load refetches the list. On failure the previous items are kept. A nil
// filter reuses the last one so post-mutation reloads keep the operator's view.
func (c *Controller[T, ID]) Load(ctx context.Context, filter Filter) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if filter != nil {
		c.filter = cloneFilter(filter)
	}
	current := cloneFilter(c.filter)
	c.inflight++
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if !c.closed {
			c.inflight--
			if !c.loaded {
				c.loaded = c.inflight == 0
			}
		}
		c.mu.Unlock()
	}()

	opCtx, done := c.scope(ctx)
	defer done()
	items, err := c.opts.Remote.List(opCtx, current)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err != nil {
		c.opts.Feedback.Notify(UserMessage(err, "Failed to load "+c.opts.Plural), SeverityError)
		c.record(ctx, "load.error", map[string]any{"error": err.Error()})
		return err
	}
	c.items = c.sorted(items)
	c.record(ctx, "load", map[string]any{"count": len(items)})
	return nil
}

// OpenCreate focuses a new draft, replacing any open dialog.
func (c *Controller[T, ID]) OpenCreate(defaults map[string]string) error {
	if c.opts.Schema == nil {
		return fmt.Errorf("%w: %s has no form", ErrUnsupported, c.opts.Name)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.readyLocked(); err != nil {
		return err
	}
	c.focus = Focus[T, ID]{Mode: ModeCreate, Form: NewForm(c.opts.Schema, defaults)}
	return nil
}

// OpenEdit focuses a deep copy of item, replacing any open dialog.
func (c *Controller[T, ID]) OpenEdit(item T) error {
	if c.opts.Schema == nil {
		return fmt.Errorf("%w: %s has no form", ErrUnsupported, c.opts.Name)
	}
	original, err := deepCopy(item)
	if err != nil {
		return err
	}
	form, err := FormFromItem(c.opts.Schema, original)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.readyLocked(); err != nil {
		return err
	}
	c.focus = Focus[T, ID]{
		Mode:       ModeEdit,
		OriginalID: item.ItemID(),
		Original:   original,
		Form:       form,
	}
	return nil
}

// SetField writes a raw value into the focused draft.
func (c *Controller[T, ID]) SetField(name, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.focus.Mode == ModeNone {
		return ErrNoFocus
	}
	return c.focus.Form.SetField(name, raw)
}

// Cancel closes the dialog without submitting.
func (c *Controller[T, ID]) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return ErrBusy
	}
	c.focus = Focus[T, ID]{}
	return nil
}

// Submit validates the draft, POSTs or PUTs it and, on success, closes the
// dialog and reloads. The persisted record is returned so create flows can hand
// the server assigned id to follow-up actions. On failure the draft is kept.
func (c *Controller[T, ID]) Submit(ctx context.Context) (T, error) {
	var zero T
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	if c.focus.Mode == ModeNone {
		c.mu.Unlock()
		return zero, ErrNoFocus
	}
	if c.submitting {
		c.mu.Unlock()
		return zero, ErrBusy
	}
	payload, err := c.focus.Form.ToPayload()
	if err != nil {
		c.mu.Unlock()
		c.record(ctx, "submit.invalid", map[string]any{"error": err.Error()})
		return zero, err
	}
	mode, id := c.focus.Mode, c.focus.OriginalID
	c.submitting = true
	c.mu.Unlock()

	opCtx, done := c.scope(ctx)
	var saved T
	if mode == ModeCreate {
		saved, err = c.opts.Remote.Create(opCtx, payload)
	} else {
		saved, err = c.opts.Remote.Update(opCtx, id, payload)
	}
	done()

	verb := "updated"
	if mode == ModeCreate {
		verb = "created"
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return saved, ErrClosed
	}
	c.submitting = false
	if err != nil {
		c.opts.Feedback.Notify(UserMessage(err, fmt.Sprintf("Failed to save %s", c.opts.Name)), SeverityError)
		c.mu.Unlock()
		c.record(ctx, "submit.error", map[string]any{"mode": mode.String(), "error": err.Error()})
		return zero, err
	}
	c.focus = Focus[T, ID]{}
	c.mu.Unlock()

	text := fmt.Sprintf("%s %s successfully", capitalize(c.opts.Name), verb)
	if loadErr := c.Load(ctx, nil); loadErr != nil {
		c.reconcile(saved)
		c.notifyIfOpen(staleListText(text), SeverityWarning)
	} else {
		c.notifyIfOpen(text, SeveritySuccess)
	}
	c.record(ctx, "submit", map[string]any{"mode": mode.String(), "id": fmt.Sprint(saved.ItemID())})
	return saved, nil
}

// Remove deletes an item after an explicit confirmation. ErrDeclined is
// returned, with no request sent, when the operator says no.
func (c *Controller[T, ID]) Remove(ctx context.Context, id ID) error {
	message := c.opts.DeletePrompt
	if message == "" {
		message = fmt.Sprintf("Are you sure you want to delete this %s?", c.opts.Name)
	}
	prompt := Prompt{
		Title:    fmt.Sprintf("Delete %s", c.opts.Name),
		Message:  message,
		Resource: c.opts.Name,
		ItemID:   fmt.Sprint(id),
		Action:   "delete",
	}
	if err := c.gate(ctx, prompt); err != nil {
		return err
	}

	opCtx, done := c.scope(ctx)
	err := c.opts.Remote.Delete(opCtx, id)
	done()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.submitting = false
	if err != nil {
		c.opts.Feedback.Notify(UserMessage(err, fmt.Sprintf("Failed to delete %s", c.opts.Name)), SeverityError)
		c.record(ctx, "remove.error", map[string]any{"id": fmt.Sprint(id), "error": err.Error()})
		return err
	}
	kept := c.items[:0:0]
	for _, item := range c.items {
		if item.ItemID() != id {
			kept = append(kept, item)
		}
	}
	c.items = kept
	c.opts.Feedback.Notify(fmt.Sprintf("%s deleted successfully", capitalize(c.opts.Name)), SeveritySuccess)
	c.record(ctx, "remove", map[string]any{"id": fmt.Sprint(id)})
	return nil
}

// Do invokes a registered custom action. The list is reloaded on success so the
// displayed state comes from the backend, never from the action response alone.
func (c *Controller[T, ID]) Do(ctx context.Context, id ID, action string, payload Payload) (ActionResult, error) {
	spec, ok := c.actions[action]
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrUnknownAction, c.opts.Name, action)
	}
	if spec.Confirm {
		msg := spec.Prompt
		if msg == "" {
			msg = fmt.Sprintf("Are you sure you want to %s this %s?", strings.ToLower(spec.Label), c.opts.Name)
		}
		err := c.gate(ctx, Prompt{
			Title:    fmt.Sprintf("%s %s", spec.Label, c.opts.Name),
			Message:  msg,
			Resource: c.opts.Name,
			ItemID:   fmt.Sprint(id),
			Action:   spec.Name,
		})
		if err != nil {
			return nil, err
		}
	} else if err := c.begin(); err != nil {
		return nil, err
	}

	opCtx, done := c.scope(ctx)
	result, err := c.opts.Remote.Action(opCtx, id, spec.Name, payload)
	done()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return result, ErrClosed
	}
	c.submitting = false
	if err != nil {
		fallback := fmt.Sprintf("Failed to %s %s", strings.ToLower(spec.Label), c.opts.Name)
		c.opts.Feedback.Notify(UserMessage(err, fallback), SeverityError)
		c.mu.Unlock()
		c.record(ctx, "action.error", map[string]any{"action": spec.Name, "id": fmt.Sprint(id), "error": err.Error()})
		return nil, err
	}
	c.mu.Unlock()

	text := fmt.Sprintf("%s %s completed", capitalize(c.opts.Name), strings.ToLower(spec.Label))
	if spec.Success != nil {
		if custom := spec.Success(result); custom != "" {
			text = custom
		}
	}
	switch {
	case spec.SkipReload:
		c.notifyIfOpen(text, SeveritySuccess)
	case c.Load(ctx, nil) != nil:
		c.notifyIfOpen(staleListText(text), SeverityWarning)
	default:
		c.notifyIfOpen(text, SeveritySuccess)
	}
	c.record(ctx, "action", map[string]any{"action": spec.Name, "id": fmt.Sprint(id)})
	return result, nil
}

// Close ends the controller lifetime: in-flight calls are cancelled and late
// responses no longer touch state or feedback.
func (c *Controller[T, ID]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
}

// State returns a snapshot safe to read while the controller keeps working.
func (c *Controller[T, ID]) State() State[T, ID] {
	c.mu.Lock()
	defer c.mu.Unlock()
	focus := c.focus
	focus.Form = c.focus.Form.Clone()
	return State[T, ID]{
		Items:      cloneItems(c.items),
		Loading:    c.loadingLocked(),
		Submitting: c.submitting,
		Phase:      c.phaseLocked(),
		Filter:     cloneFilter(c.filter),
		Focus:      focus,
	}
}

// Items returns a copy of the current list.
func (c *Controller[T, ID]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneItems(c.items)
}

// Find looks up an item in the current list.
func (c *Controller[T, ID]) Find(id ID) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.ItemID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Loading reports whether a list call is pending or the first load has not settled.
func (c *Controller[T, ID]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadingLocked()
}

func (c *Controller[T, ID]) loadingLocked() bool {
	return c.inflight > 0 || !c.loaded
}

func (c *Controller[T, ID]) phaseLocked() Phase {
	switch {
	case c.submitting:
		return PhaseSubmitting
	case c.confirming:
		return PhaseConfirming
	case c.focus.Mode != ModeNone:
		return PhaseDialogOpen
	case c.inflight > 0:
		return PhaseLoading
	default:
		return PhaseIdle
	}
}

func (c *Controller[T, ID]) readyLocked() error {
	if c.closed {
		return ErrClosed
	}
	if c.submitting {
		return ErrBusy
	}
	return nil
}

func (c *Controller[T, ID]) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.readyLocked(); err != nil {
		return err
	}
	c.submitting = true
	return nil
}

// gate runs the confirmation step and, when approved, marks the controller as
// submitting.
func (c *Controller[T, ID]) gate(ctx context.Context, prompt Prompt) error {
	c.mu.Lock()
	if err := c.readyLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.confirming = true
	c.mu.Unlock()

	ok, err := c.opts.Confirmer.Confirm(ctx, prompt)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirming = false
	if c.closed {
		return ErrClosed
	}
	if err != nil {
		return fmt.Errorf("backoffice: confirm %s: %w", prompt.Action, err)
	}
	if !ok {
		c.record(ctx, prompt.Action+".declined", map[string]any{"id": prompt.ItemID})
		return ErrDeclined
	}
	if c.submitting {
		return ErrBusy
	}
	c.submitting = true
	return nil
}

// staleListText reports a completed mutation whose follow-up reload failed.
func staleListText(text string) string {
	return text + ", but the list could not be refreshed"
}

func (c *Controller[T, ID]) reconcile(saved T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	id := saved.ItemID()
	for i, item := range c.items {
		if item.ItemID() == id {
			c.items[i] = saved
			return
		}
	}
	c.items = c.sorted(append(c.items, saved))
}

func (c *Controller[T, ID]) notifyIfOpen(text string, severity Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.opts.Feedback.Notify(text, severity)
}

func (c *Controller[T, ID]) sorted(items []T) []T {
	if c.opts.Less == nil || len(items) < 2 {
		return items
	}
	sort.SliceStable(items, func(i, j int) bool { return c.opts.Less(items[i], items[j]) })
	return items
}

// scope ties a call context to the controller lifetime.
func (c *Controller[T, ID]) scope(ctx context.Context) (context.Context, func()) {
	if ctx == nil {
		ctx = context.Background()
	}
	opCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.lifetime, cancel)
	return opCtx, func() {
		stop()
		cancel()
	}
}

func (c *Controller[T, ID]) record(ctx context.Context, event string, payload map[string]any) {
	c.opts.Telemetry.Record(ctx, "backoffice."+c.opts.Name+"."+event, payload)
}

func cloneFilter(f Filter) Filter {
	if f == nil {
		return nil
	}
	out := make(Filter, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
