// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package localstore

import (
	"sync"
	"sync/atomic"
)

// Memory is a thread-safe in-memory Storage implementation. It is the
// default for tests and for throwaway runs where persistence across
// restarts is not wanted.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]string
	closed atomic.Bool
}

// NewMemory creates an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// GetItem retrieves the value stored under key.
func (m *Memory) GetItem(key string) (string, error) {
	if m.closed.Load() {
		return "", ErrClosed
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNoItem
	}
	return v, nil
}

// SetItem stores value under key.
func (m *Memory) SetItem(key, value string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// RemoveItem deletes key.
func (m *Memory) RemoveItem(key string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Close marks the storage closed. Further operations fail with ErrClosed.
func (m *Memory) Close() error {
	m.closed.Store(true)
	return nil
}
