package repository

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value     []byte
	expiresAt time.Time
	hasTTL    bool
}

func (e memEntry) isExpired() bool {
	return e.hasTTL && time.Now().After(e.expiresAt)
}

type memoryKVStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

func NewMemoryKVStore() KVStore {
	return &memoryKVStore{
		entries: make(map[string]memEntry),
	}
}

// get returns the live entry for key, dropping it lazily if expired.
// Callers must hold s.mu.
func (s *memoryKVStore) get(key string) (memEntry, bool) {
	entry, ok := s.entries[key]
	if !ok {
		return memEntry{}, false
	}
	if entry.isExpired() {
		delete(s.entries, key)
		return memEntry{}, false
	}
	return entry, true
}

func (s *memoryKVStore) set(key string, value []byte, ttl time.Duration) {
	entry := memEntry{value: value}
	if ttl > 0 {
		entry.hasTTL = true
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = entry
}

func (s *memoryKVStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(key, value, ttl)
	return nil
}

func (s *memoryKVStore) SetNX(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.get(key); ok {
		return false, nil
	}
	s.set(key, value, ttl)
	return true, nil
}

func (s *memoryKVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.get(key)
	if !ok {
		return nil, nil
	}
	return entry.value, nil
}

func (s *memoryKVStore) GetDel(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.get(key)
	if !ok {
		return nil, nil
	}
	delete(s.entries, key)
	return entry.value, nil
}

func (s *memoryKVStore) GetAndConsume(_ context.Context, getKey, consumeKey string) ([]byte, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var got, consumed []byte
	if entry, ok := s.get(getKey); ok {
		got = entry.value
	}
	if entry, ok := s.get(consumeKey); ok {
		consumed = entry.value
		delete(s.entries, consumeKey)
	}
	return got, consumed, nil
}

func (s *memoryKVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *memoryKVStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.get(key)
	return ok, nil
}

func (s *memoryKVStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.get(key)
	if !ok {
		return nil
	}
	s.set(key, entry.value, ttl)
	return nil
}

func (s *memoryKVStore) Ping(_ context.Context) error {
	return nil
}
