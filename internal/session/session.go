// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session keeps the signed-in admin user in local storage. It
// is a thin gate over the store's authentication: it records who signed
// in but enforces nothing.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cloudhost/hostcms/internal/localstore"
	"github.com/cloudhost/hostcms/internal/store"
)

// ErrNotSignedIn indicates no current session.
var ErrNotSignedIn = errors.New("not signed in")

// CurrentUser is the serialized session payload. The credential hash is
// deliberately absent.
type CurrentUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// Manager stores and retrieves the current user.
type Manager struct {
	store   *store.Store
	storage localstore.Storage
}

// NewManager creates a session manager over the given store and
// storage.
func NewManager(st *store.Store, storage localstore.Storage) *Manager {
	return &Manager{store: st, storage: storage}
}

// SignIn authenticates the credential against the store and, on
// success, records the user as the current session. Authentication
// failures pass through the store's taxonomy (ErrNotFound,
// ErrInvalidCredential).
func (m *Manager) SignIn(ctx context.Context, email, password string) (CurrentUser, error) {
	user, err := m.store.AuthenticateUser(ctx, email, password)
	if err != nil {
		return CurrentUser{}, err
	}

	cu := CurrentUser{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Status: user.Status,
	}
	data, err := json.Marshal(cu)
	if err != nil {
		return CurrentUser{}, fmt.Errorf("encoding session: %w", err)
	}
	if err := m.storage.SetItem(localstore.KeySession, string(data)); err != nil {
		return CurrentUser{}, fmt.Errorf("writing session: %w", err)
	}
	return cu, nil
}

// Current returns the signed-in user, or ErrNotSignedIn.
func (m *Manager) Current() (CurrentUser, error) {
	raw, err := m.storage.GetItem(localstore.KeySession)
	if errors.Is(err, localstore.ErrNoItem) {
		return CurrentUser{}, ErrNotSignedIn
	}
	if err != nil {
		return CurrentUser{}, fmt.Errorf("reading session: %w", err)
	}

	var cu CurrentUser
	if err := json.Unmarshal([]byte(raw), &cu); err != nil {
		// A session that cannot be decoded is treated as signed out.
		_ = m.storage.RemoveItem(localstore.KeySession)
		return CurrentUser{}, ErrNotSignedIn
	}
	return cu, nil
}

// SignOut clears the current session.
func (m *Manager) SignOut() error {
	return m.storage.RemoveItem(localstore.KeySession)
}
