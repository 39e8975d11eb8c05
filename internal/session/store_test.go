package session_test

import (
	"context"
	"testing"
	"time"

	"profolio-backend/internal/domain"
	"profolio-backend/internal/session"

	"github.com/stretchr/testify/assert"
)

func newTestStore() *session.Store {
	// nil Redis client exercises the in-memory fallback
	return session.NewStore(nil, time.Hour)
}

func TestSessionPutGet(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	profile := &domain.Profile{UID: "u1", Username: "adalovelace", Name: "Ada Lovelace"}
	assert.NoError(t, store.Put(ctx, profile))

	got, err := store.Get(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, "adalovelace", got.Username)

	t.Run("Unknown UID is a miss, not an error", func(t *testing.T) {
		got, err := store.Get(ctx, "nobody")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Profile without UID is rejected", func(t *testing.T) {
		assert.Error(t, store.Put(ctx, &domain.Profile{}))
	})
}

func TestSessionMergePreservesSkillOrder(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	assert.NoError(t, store.Put(ctx, &domain.Profile{UID: "u1", Username: "ada"}))

	skills := []string{"Go", "Rust"}
	merged, err := store.Merge(ctx, "u1", domain.ProfilePatch{Skills: &skills})
	assert.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, merged.Skills)

	// Reading back the cache returns the same two skills in the same order,
	// independent of whatever the store persisted.
	got, err := store.Get(ctx, "u1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust"}, got.Skills)
}

func TestSessionMergeIsShallow(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	assert.NoError(t, store.Put(ctx, &domain.Profile{
		UID: "u1", Username: "ada", Name: "Ada Lovelace", Title: "Engineer",
	}))

	title := "Mathematician"
	merged, err := store.Merge(ctx, "u1", domain.ProfilePatch{Title: &title})
	assert.NoError(t, err)
	assert.Equal(t, "Mathematician", merged.Title)
	assert.Equal(t, "Ada Lovelace", merged.Name, "untouched fields survive the merge")
	assert.Equal(t, "ada", merged.Username)
}

func TestSessionMergeWithoutCachedProfileIsNoop(t *testing.T) {
	store := newTestStore()

	title := "Engineer"
	merged, err := store.Merge(context.Background(), "ghost", domain.ProfilePatch{Title: &title})
	assert.NoError(t, err)
	assert.Nil(t, merged)
}

func TestSessionClear(t *testing.T) {
	store := newTestStore()
	ctx := context.Background()

	assert.NoError(t, store.Put(ctx, &domain.Profile{UID: "u1", Username: "ada"}))
	assert.NoError(t, store.Clear(ctx, "u1"))

	got, err := store.Get(ctx, "u1")
	assert.NoError(t, err)
	assert.Nil(t, got)

	// Clearing twice is harmless
	assert.NoError(t, store.Clear(ctx, "u1"))
}

func TestSessionEntryExpires(t *testing.T) {
	store := session.NewStore(nil, -time.Second) // already expired on write
	ctx := context.Background()

	assert.NoError(t, store.Put(ctx, &domain.Profile{UID: "u1", Username: "ada"}))

	got, err := store.Get(ctx, "u1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
