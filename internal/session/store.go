// Package session caches the signed-in user's profile snapshot between
// requests, so views that follow a save see fresh data without a refetch.
// Redis-backed when configured, with an in-memory fallback otherwise.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"profolio-backend/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "session:profile:"

type entry struct {
	profile  domain.Profile
	expireAt time.Time
}

type Store struct {
	rdb *goredis.Client // nil when Redis is not configured
	ttl time.Duration

	mu    sync.RWMutex
	local map[string]entry
}

func NewStore(rdb *goredis.Client, ttl time.Duration) *Store {
	return &Store{
		rdb:   rdb,
		ttl:   ttl,
		local: make(map[string]entry),
	}
}

// Put caches the profile under its UID.
func (s *Store) Put(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.UID == "" {
		return errors.New("session: profile with UID required")
	}

	if s.rdb != nil {
		data, err := json.Marshal(profile)
		if err != nil {
			return err
		}
		return s.rdb.Set(ctx, keyPrefix+profile.UID, data, s.ttl).Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.local[profile.UID] = entry{profile: *profile, expireAt: time.Now().Add(s.ttl)}
	return nil
}

// Get returns the cached profile or (nil, nil) when nothing is cached.
// A Redis read failure is treated as a miss: the session is a cache, callers
// fall back to storage.
func (s *Store) Get(ctx context.Context, uid string) (*domain.Profile, error) {
	if s.rdb != nil {
		data, err := s.rdb.Get(ctx, keyPrefix+uid).Bytes()
		if err != nil {
			if errors.Is(err, goredis.Nil) {
				return nil, nil
			}
			return nil, nil // degraded Redis reads as a miss
		}
		var p domain.Profile
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, nil
		}
		return &p, nil
	}

	s.mu.RLock()
	e, ok := s.local[uid]
	s.mu.RUnlock()
	if !ok || time.Now().After(e.expireAt) {
		return nil, nil
	}
	p := e.profile
	return &p, nil
}

// Merge shallow-merges the patch into the cached profile without re-reading
// storage. Returns the merged profile, or (nil, nil) when nothing was cached.
func (s *Store) Merge(ctx context.Context, uid string, patch domain.ProfilePatch) (*domain.Profile, error) {
	cached, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if cached == nil {
		return nil, nil
	}

	cached.Apply(patch)
	if err := s.Put(ctx, cached); err != nil {
		return nil, err
	}
	return cached, nil
}

// Clear removes the cached profile. Called synchronously at the start of
// sign-out, before the provider round trip.
func (s *Store) Clear(ctx context.Context, uid string) error {
	if s.rdb != nil {
		return s.rdb.Del(ctx, keyPrefix+uid).Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.local, uid)
	return nil
}
