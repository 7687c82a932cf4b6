package unit

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideaforge/ideaforge-backend/internal/projects/domain"
	"github.com/ideaforge/ideaforge-backend/internal/wizard"
)

func newNavStore(t *testing.T) *wizard.NavStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return wizard.NewNavStore(client)
}

func TestNavStore_SaveLoadRoundTrip(t *testing.T) {
	store := newNavStore(t)
	ctx := context.Background()

	seq := wizard.NewSequencer()
	seq.Advance()
	seq.Advance()
	require.NoError(t, store.Save(ctx, "u1", "idea-00001-0001", seq))

	got, err := store.Load(ctx, "u1", "idea-00001-0001")
	require.NoError(t, err)
	assert.Equal(t, domain.StageDefine, got.Current)
	assert.True(t, got.Completed[domain.StageEmpathize])
	assert.True(t, got.Completed[domain.StagePersonas])
	assert.False(t, got.Completed[domain.StageDefine])
}

func TestNavStore_MissingKeyYieldsFreshSequencer(t *testing.T) {
	store := newNavStore(t)

	got, err := store.Load(context.Background(), "u1", "idea-00009-0009")
	require.NoError(t, err)
	assert.Equal(t, domain.StageEmpathize, got.Current)
	assert.Empty(t, got.CompletedList())
}

func TestNavStore_KeysAreScopedPerUser(t *testing.T) {
	store := newNavStore(t)
	ctx := context.Background()

	seq := wizard.NewSequencer()
	seq.Advance()
	require.NoError(t, store.Save(ctx, "u1", "idea-00001-0001", seq))

	// A different user loading the same project starts fresh.
	got, err := store.Load(ctx, "u2", "idea-00001-0001")
	require.NoError(t, err)
	assert.Equal(t, domain.StageEmpathize, got.Current)
}

func TestNavStore_Clear(t *testing.T) {
	store := newNavStore(t)
	ctx := context.Background()

	seq := wizard.NewSequencer()
	seq.Advance()
	require.NoError(t, store.Save(ctx, "u1", "idea-00001-0001", seq))
	require.NoError(t, store.Clear(ctx, "u1", "idea-00001-0001"))

	got, err := store.Load(ctx, "u1", "idea-00001-0001")
	require.NoError(t, err)
	assert.Empty(t, got.CompletedList())
}
