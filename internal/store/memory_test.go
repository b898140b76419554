package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordlebot/internal/game"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	g, err := game.New(game.DefaultSettings(), nil)
	require.NoError(t, err)
	return &Session{Game: g, Kind: Honest}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_, err := m.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	s := newSession(t)
	require.NoError(t, m.Save(ctx, s))
	got, err := m.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Delete(ctx, s.ID()))
	_, err = m.Get(ctx, s.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, m.Delete(ctx, s.ID()))
}

func TestMemorySweep(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	old, fresh := newSession(t), newSession(t)
	require.NoError(t, m.Save(ctx, old))
	now = now.Add(time.Hour)
	require.NoError(t, m.Save(ctx, fresh))

	assert.Equal(t, 1, m.Sweep(30*time.Minute))
	_, err := m.Get(ctx, old.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(ctx, fresh.ID())
	assert.NoError(t, err)
}

func TestMemoryConcurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := newSession(t)
			assert.NoError(t, m.Save(ctx, s))
			_, err := m.Get(ctx, s.ID())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 32, m.Len())
}

func TestKeeperValid(t *testing.T) {
	assert.True(t, Honest.Valid())
	assert.True(t, Flexible.Valid())
	assert.False(t, Keeper("sneaky").Valid())
}
