package store

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/postcard/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreContract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store { return newTestStore(t) })
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + t.TempDir() + "/conversations.db"

	first, err := NewSQLiteStore(dsn)
	require.NoError(t, err)
	require.NoError(t, first.AddMessage(ctx, "abc", domain.RoleUser, "hello"))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStore(dsn)
	require.NoError(t, err)
	defer second.Close()

	messages, err := second.GetMessages(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []domain.Message{{Role: domain.RoleUser, Content: "hello"}}, messages)
}

func TestNewSelectsBackend(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(":memory:")
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &SQLiteStore{}, s)
}

func TestNewMessageIDUsesFullUUID(t *testing.T) {
	id := newMessageID()
	require.True(t, strings.HasPrefix(id, "msg_"))
	_, err := uuid.Parse(strings.TrimPrefix(id, "msg_"))
	assert.NoError(t, err)
}

func TestSQLiteStoreMessageIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	for i := 0; i < 200; i++ {
		require.NoError(t, store.AddMessage(ctx, "abc", domain.RoleUser, "hi"))
	}

	var total, distinct int
	require.NoError(t, store.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT message_id) FROM messages`).Scan(&total, &distinct))
	assert.Equal(t, 200, total)
	assert.Equal(t, total, distinct)
}
