// Package storage is the durable key-value adapter behind the cart, session and
// favorites. Values are stored JSON-encoded so anything a caller writes can be
// read back without loss.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Well-known keys
const (
	KeyUserID         = "userId"
	KeyUserName       = "userName"
	KeyCart           = "cart"
	KeyHeartsState    = "heartsState"
	KeyCalculatorData = "calculatorData"
	KeyProfileData    = "profileData"
)

var ErrClosed = errors.New("storage is closed")

// Store gets and sets JSON-serialized values
type Store interface {
	// Get decodes the value at key into dst and reports whether the key existed
	Get(key string, dst interface{}) (bool, error)
	Set(key string, value interface{}) error
	Delete(key string) error
	// Clear removes every key
	Clear() error
}

// MemoryStore keeps encoded values in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string, dst interface{}) (bool, error) {
	s.mu.RLock()
	data, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (s *MemoryStore) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	s.mu.Lock()
	s.values[key] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.values = make(map[string][]byte)
	s.mu.Unlock()
	return nil
}

// GetOr returns the value at key, or fallback when the key is missing or unreadable
func GetOr[T any](s Store, key string, fallback T) T {
	var value T
	ok, err := s.Get(key, &value)
	if !ok || err != nil {
		return fallback
	}
	return value
}
