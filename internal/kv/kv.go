// Package kv defines the key-value store port that every persisted record
// goes through, plus typed helpers over JSON-encoded collections.
//
// Stores make no transactional promises. Append is a read-modify-write and
// two concurrent writers can drop each other's update.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrInvalidValue = errors.New("invalid stored value")

// Values maps keys to their raw JSON documents. Keys absent from a Get
// result were never set.
type Values map[string]json.RawMessage

type Store interface {
	Get(ctx context.Context, keys ...string) (Values, error)
	Set(ctx context.Context, values Values) error
}

// Encode marshals value into a single-key Values map.
func Encode(key string, value any) (Values, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	return Values{key: data}, nil
}

// List decodes the collection stored under key. Missing or null keys yield an
// empty slice.
func List[T any](values Values, key string) ([]T, error) {
	raw, ok := values[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidValue, key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Object decodes the document stored under key into dst. It reports whether
// the key was present.
func Object(values Values, key string, dst any) (bool, error) {
	raw, ok := values[key]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidValue, key, err)
	}
	return true, nil
}

// Load fetches key and decodes it as a collection.
func Load[T any](ctx context.Context, store Store, key string) ([]T, error) {
	values, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return List[T](values, key)
}

// Append reads the collection under key, appends item and writes it back.
func Append[T any](ctx context.Context, store Store, key string, item T) error {
	items, err := Load[T](ctx, store, key)
	if err != nil {
		return err
	}
	items = append(items, item)
	return Save(ctx, store, key, items)
}

// Save replaces the collection under key.
func Save[T any](ctx context.Context, store Store, key string, items []T) error {
	values, err := Encode(key, items)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, values); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Memory is an in-process Store. The zero value is not usable; call NewMemory.
type Memory struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]json.RawMessage)}
}

// Get with no keys returns every stored value.
func (m *Memory) Get(_ context.Context, keys ...string) (Values, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(Values, len(keys))
	if len(keys) == 0 {
		for key, value := range m.values {
			result[key] = cloneRaw(value)
		}
		return result, nil
	}
	for _, key := range keys {
		if value, ok := m.values[key]; ok {
			result[key] = cloneRaw(value)
		}
	}
	return result, nil
}

// Set writes every value or, when any of them is not valid JSON, none.
func (m *Memory) Set(_ context.Context, values Values) error {
	for key, value := range values {
		if !json.Valid(value) {
			return fmt.Errorf("%w: %s", ErrInvalidValue, key)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for key, value := range values {
		m.values[key] = cloneRaw(value)
	}
	return nil
}

// Keys lists stored keys in sorted order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.values))
	for key := range m.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func cloneRaw(value json.RawMessage) json.RawMessage {
	out := make(json.RawMessage, len(value))
	copy(out, value)
	return out
}
