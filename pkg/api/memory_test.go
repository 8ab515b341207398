package api

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-backoffice/components/backoffice"
)

func newMemoryRecords() *MemoryBackend[record, int] {
	return NewMemoryBackend(MemoryOptions[record, int]{
		NextID: SequentialIDs(10),
		Match: func(item record, filter backoffice.Filter) bool {
			status := filter["status"]
			return status == "" || item.Status == status
		},
		OnSave: func(item record) record {
			item.Code = strings.ToUpper(item.Code)
			return item
		},
		Actions: map[string]MemoryAction[record]{
			"approve": func(item record, _ backoffice.Payload) (record, backoffice.ActionResult, error) {
				item.Status = "approved"
				return item, backoffice.ActionResult{"status": item.Status}, nil
			},
		},
	}, record{ID: 1, Code: "A", Status: "pending"}, record{ID: 2, Code: "B", Status: "approved"})
}

func TestMemoryBackendCRUD(t *testing.T) {
	backend := newMemoryRecords()
	ctx := context.Background()

	pending, err := backend.List(ctx, backoffice.Filter{"status": "pending"})
	require.NoError(t, err)
	assert.Equal(t, []record{{ID: 1, Code: "A", Status: "pending"}}, pending)

	created, err := backend.Create(ctx, backoffice.Payload{"code": "new"})
	require.NoError(t, err)
	assert.Equal(t, record{ID: 11, Code: "NEW"}, created)

	updated, err := backend.Update(ctx, 11, backoffice.Payload{"status": "pending"})
	require.NoError(t, err)
	assert.Equal(t, record{ID: 11, Code: "NEW", Status: "pending"}, updated)

	require.NoError(t, backend.Delete(ctx, 1))
	assert.Len(t, backend.Snapshot(), 2)

	err = backend.Delete(ctx, 1)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.Status)

	assert.Equal(t, 2, backend.Calls("delete"))
	assert.Equal(t, []backoffice.Payload{{"code": "new"}}, backend.Payloads("create"))
}

func TestMemoryBackendActionsAndFailures(t *testing.T) {
	backend := newMemoryRecords()
	ctx := context.Background()

	result, err := backend.Action(ctx, 1, "approve", nil)
	require.NoError(t, err)
	assert.Equal(t, "approved", result.String("status"))
	assert.Equal(t, "approved", backend.Snapshot()[0].Status)

	_, err = backend.Action(ctx, 1, "archive", nil)
	require.Error(t, err)

	boom := &APIError{Status: 400, Message: "SMTP not configured"}
	backend.Fail("approve", boom)
	_, err = backend.Action(ctx, 2, "approve", nil)
	require.ErrorIs(t, err, boom)

	backend.Fail("approve", nil)
	_, err = backend.Action(ctx, 2, "approve", nil)
	require.NoError(t, err)
}

func TestMemoryBackendHonoursCancellation(t *testing.T) {
	backend := newMemoryRecords()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := backend.List(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMemoryBackendListIsolation(t *testing.T) {
	backend := newMemoryRecords()
	items, err := backend.List(context.Background(), nil)
	require.NoError(t, err)
	items[0].Code = "mutated"
	assert.Equal(t, "A", backend.Snapshot()[0].Code)
}

func TestSessionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	require.NoError(t, SaveSession(path, Session{Token: "tok", Email: "root@example.com"}))

	session, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "tok", session.Token)
	assert.Equal(t, "root@example.com", session.Email)
	assert.False(t, session.SavedAt.IsZero())

	token, err := FileCredentials{Path: path}.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	require.NoError(t, ClearSession(path))
	require.NoError(t, ClearSession(path))
	_, err = FileCredentials{Path: path}.Token(context.Background())
	require.ErrorIs(t, err, ErrNoCredentials)
}

func TestCredentialChain(t *testing.T) {
	t.Setenv("BACKOFFICE_TEST_TOKEN", "")
	chain := Chain{EnvToken("BACKOFFICE_TEST_TOKEN"), StaticToken("fallback")}
	token, err := chain.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fallback", token)

	t.Setenv("BACKOFFICE_TEST_TOKEN", " from-env ")
	token, err = chain.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-env", token)

	_, err = Chain{StaticToken("")}.Token(context.Background())
	require.ErrorIs(t, err, ErrNoCredentials)
}
