package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bible-chat/internal/domain/chat"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	turns := []chat.Turn{
		{Role: chat.RoleUser, Content: "기도는 어떻게 하나요?"},
		{Role: chat.RoleAssistant, Content: "주기도문을 참고하세요."},
	}

	_, ok, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Save(ctx, "s1", turns, time.Minute))
	got, ok, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, turns, got)

	got[0].Content = "mutated"
	again, _, _ := store.Load(ctx, "s1")
	require.Equal(t, turns[0].Content, again[0].Content)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, ok, _ = store.Load(ctx, "s1")
	require.False(t, ok)
}

func TestMemoryStoreExpires(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "short", []chat.Turn{{Role: chat.RoleUser, Content: "q"}}, time.Minute))
	require.NoError(t, store.Save(ctx, "forever", []chat.Turn{{Role: chat.RoleUser, Content: "q"}}, 0))

	now = now.Add(2 * time.Minute)
	_, ok, _ := store.Load(ctx, "short")
	require.False(t, ok)
	_, ok, _ = store.Load(ctx, "forever")
	require.True(t, ok)
}

func TestValkeySessionKey(t *testing.T) {
	require.Equal(t, "bible-chat:session:abc", NewValkeyStore(nil, "").sessionKey("abc"))
	require.Equal(t, "dev:session:abc", NewValkeyStore(nil, "dev").sessionKey("abc"))
}
