// Package session holds in-memory conversation state. State is per user,
// survives only for the process lifetime, and is guarded by sharded locks
// so one slow user never blocks another.
package session

import "sync"

const shardCount = 32

type shard[T any] struct {
	mu sync.Mutex
	m  map[int64]T
}

// store is a sharded map keyed by user id. The zero value of T is what a
// user who never interacted looks like.
type store[T any] struct {
	shards [shardCount]shard[T]
}

func newStore[T any]() *store[T] {
	s := &store[T]{}
	for i := range s.shards {
		s.shards[i].m = make(map[int64]T)
	}
	return s
}

func (s *store[T]) shardFor(userID int64) *shard[T] {
	return &s.shards[uint64(userID)%shardCount]
}

// Get returns the state for a user, or the zero value.
func (s *store[T]) Get(userID int64) T {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.m[userID]
}

// Update applies fn to the user's state under the shard lock, making
// read-modify-write sequences atomic per user.
func (s *store[T]) Update(userID int64, fn func(*T)) T {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	v := sh.m[userID]
	fn(&v)
	sh.m[userID] = v
	return v
}

// Clear drops the user's state.
func (s *store[T]) Clear(userID int64) {
	sh := s.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.m, userID)
}
