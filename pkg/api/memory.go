package api

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

// MemoryAction mutates a stored record for a custom action and returns the
// action response body.
type MemoryAction[T any] func(item T, payload backoffice.Payload) (T, backoffice.ActionResult, error)

// MemoryOptions configures a MemoryBackend.
type MemoryOptions[T backoffice.Identifiable[ID], ID comparable] struct {
	// NextID assigns ids to created records.
	NextID func() ID
	// Match filters List results; nil returns every record.
	Match func(item T, filter backoffice.Filter) bool
	// OnSave normalizes a record before it is stored, the way a server would.
	OnSave  func(item T) T
	Actions map[string]MemoryAction[T]
}

// MemoryBackend implements backoffice.Remote in memory for tests and demos.
// Records are merged with payloads through their JSON shape, so T must
// serialize its identifier under "id".
type MemoryBackend[T backoffice.Identifiable[ID], ID comparable] struct {
	mu       sync.RWMutex
	items    []T
	opts     MemoryOptions[T, ID]
	failures map[string]error
	calls    map[string]int
	payloads map[string][]backoffice.Payload
}

// NewMemoryBackend seeds a backend with items.
func NewMemoryBackend[T backoffice.Identifiable[ID], ID comparable](opts MemoryOptions[T, ID], items ...T) *MemoryBackend[T, ID] {
	seeded := make([]T, 0, len(items))
	for _, item := range items {
		seeded = append(seeded, cloneRecord(item))
	}
	return &MemoryBackend[T, ID]{
		items:    seeded,
		opts:     opts,
		failures: map[string]error{},
		calls:    map[string]int{},
		payloads: map[string][]backoffice.Payload{},
	}
}

// SequentialIDs returns an int id generator starting after start.
func SequentialIDs(start int) func() int {
	var mu sync.Mutex
	next := start
	return func() int {
		mu.Lock()
		defer mu.Unlock()
		next++
		return next
	}
}

// RandomIDs returns a uuid string generator.
func RandomIDs() func() string {
	return uuid.NewString
}

// Fail makes every call to op ("list", "create", "update", "delete" or an
// action name) return err. A nil err clears the failure.
func (m *MemoryBackend[T, ID]) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, op)
		return
	}
	m.failures[op] = err
}

// Calls reports how many times op was invoked, failed calls included.
func (m *MemoryBackend[T, ID]) Calls(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[op]
}

// Payloads returns the payloads received by op.
func (m *MemoryBackend[T, ID]) Payloads(op string) []backoffice.Payload {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]backoffice.Payload(nil), m.payloads[op]...)
}

// Snapshot returns a copy of the stored records.
func (m *MemoryBackend[T, ID]) Snapshot() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, len(m.items))
	for i, item := range m.items {
		out[i] = cloneRecord(item)
	}
	return out
}

func (m *MemoryBackend[T, ID]) List(ctx context.Context, filter backoffice.Filter) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "list", nil); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(m.items))
	for _, item := range m.items {
		if m.opts.Match != nil && !m.opts.Match(item, filter) {
			continue
		}
		out = append(out, cloneRecord(item))
	}
	return out, nil
}

func (m *MemoryBackend[T, ID]) Create(ctx context.Context, payload backoffice.Payload) (T, error) {
	var zero T
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "create", payload); err != nil {
		return zero, err
	}
	if m.opts.NextID == nil {
		return zero, fmt.Errorf("%w: memory backend has no id generator", backoffice.ErrUnsupported)
	}
	item, err := mergeRecord(zero, payload, m.opts.NextID())
	if err != nil {
		return zero, err
	}
	item = m.save(item)
	m.items = append(m.items, item)
	return cloneRecord(item), nil
}

func (m *MemoryBackend[T, ID]) Update(ctx context.Context, id ID, payload backoffice.Payload) (T, error) {
	var zero T
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "update", payload); err != nil {
		return zero, err
	}
	idx := m.indexOf(id)
	if idx < 0 {
		return zero, notFound(id)
	}
	item, err := mergeRecord(m.items[idx], payload, id)
	if err != nil {
		return zero, err
	}
	m.items[idx] = m.save(item)
	return cloneRecord(m.items[idx]), nil
}

func (m *MemoryBackend[T, ID]) Delete(ctx context.Context, id ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, "delete", nil); err != nil {
		return err
	}
	idx := m.indexOf(id)
	if idx < 0 {
		return notFound(id)
	}
	m.items = append(m.items[:idx], m.items[idx+1:]...)
	return nil
}

func (m *MemoryBackend[T, ID]) Action(ctx context.Context, id ID, action string, payload backoffice.Payload) (backoffice.ActionResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter(ctx, action, payload); err != nil {
		return nil, err
	}
	handler, ok := m.opts.Actions[action]
	if !ok {
		return nil, &APIError{Method: "POST", Path: action, Status: 404, Message: "Not found."}
	}
	idx := m.indexOf(id)
	if idx < 0 {
		return nil, notFound(id)
	}
	updated, result, err := handler(cloneRecord(m.items[idx]), payload)
	if err != nil {
		return nil, err
	}
	m.items[idx] = updated
	if result == nil {
		result = backoffice.ActionResult{}
	}
	return result, nil
}

func (m *MemoryBackend[T, ID]) enter(ctx context.Context, op string, payload backoffice.Payload) error {
	m.calls[op]++
	if payload != nil {
		m.payloads[op] = append(m.payloads[op], payload)
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return &NetworkError{Method: op, Path: "memory", Err: err}
		}
	}
	return m.failures[op]
}

func (m *MemoryBackend[T, ID]) indexOf(id ID) int {
	for i, item := range m.items {
		if item.ItemID() == id {
			return i
		}
	}
	return -1
}

func (m *MemoryBackend[T, ID]) save(item T) T {
	if m.opts.OnSave != nil {
		return m.opts.OnSave(item)
	}
	return item
}

func notFound(id any) error {
	return &APIError{Status: 404, Message: fmt.Sprintf("Record %v not found.", id)}
}

func mergeRecord[T any, ID any](base T, payload backoffice.Payload, id ID) (T, error) {
	var out T
	data, err := json.Marshal(base)
	if err != nil {
		return out, fmt.Errorf("api: encode record: %w", err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return out, fmt.Errorf("api: decode record: %w", err)
	}
	for key, value := range payload {
		fields[key] = value
	}
	fields["id"] = id
	merged, err := json.Marshal(fields)
	if err != nil {
		return out, fmt.Errorf("api: encode merged record: %w", err)
	}
	if err := json.Unmarshal(merged, &out); err != nil {
		return out, fmt.Errorf("api: decode merged record: %w", err)
	}
	return out, nil
}

func cloneRecord[T any](item T) T {
	data, err := json.Marshal(item)
	if err != nil {
		return item
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return item
	}
	return out
}
