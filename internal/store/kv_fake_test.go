package store

import (
	"errors"
	"fmt"
)

var errDiskFull = errors.New("disk full")

// memKV is an in-memory KV; failSet makes every write fail.
type memKV struct {
	data    map[string][]byte
	failSet bool
	sets    int
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Get(key string) ([]byte, error) {
	b, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return append([]byte(nil), b...), nil
}

func (m *memKV) Set(key string, value []byte) error {
	if m.failSet {
		return errDiskFull
	}
	m.sets++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func (m *memKV) Close() error { return nil }
