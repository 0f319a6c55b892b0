// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudhost/hostcms/internal/localstore"
	"github.com/cloudhost/hostcms/internal/store"
	"github.com/cloudhost/hostcms/internal/testutil"
)

func newTestManager(t *testing.T) (*Manager, localstore.Storage) {
	t.Helper()
	storage := localstore.NewMemory()
	t.Cleanup(func() { _ = storage.Close() })
	return NewManager(testutil.TestStore(t), storage), storage
}

func TestSignInAndCurrent(t *testing.T) {
	m, storage := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Current(); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("Current before sign-in = %v, want ErrNotSignedIn", err)
	}

	cu, err := m.SignIn(ctx, store.DefaultAdminEmail, store.DefaultAdminPassword)
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if cu.Email != store.DefaultAdminEmail {
		t.Errorf("email = %q, want %q", cu.Email, store.DefaultAdminEmail)
	}

	got, err := m.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got != cu {
		t.Errorf("Current = %+v, want %+v", got, cu)
	}

	// The stored payload must not contain the credential hash.
	raw, err := storage.GetItem(localstore.KeySession)
	if err != nil {
		t.Fatalf("GetItem session: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("empty session payload")
	}
	for _, fragment := range []string{"argon2", "password"} {
		if strings.Contains(raw, fragment) {
			t.Errorf("session payload leaks %q: %s", fragment, raw)
		}
	}
}

func TestSignInFailureLeavesNoSession(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.SignIn(ctx, store.DefaultAdminEmail, "wrong"); !errors.Is(err, store.ErrInvalidCredential) {
		t.Fatalf("SignIn wrong password = %v, want ErrInvalidCredential", err)
	}
	if _, err := m.SignIn(ctx, "ghost@cloudhost.com", "x"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("SignIn unknown email = %v, want ErrNotFound", err)
	}
	if _, err := m.Current(); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("Current after failed sign-ins = %v, want ErrNotSignedIn", err)
	}
}

func TestSignOut(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.SignIn(ctx, store.DefaultAdminEmail, store.DefaultAdminPassword); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if err := m.SignOut(); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if _, err := m.Current(); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("Current after sign-out = %v, want ErrNotSignedIn", err)
	}

	// Signing out twice is harmless.
	if err := m.SignOut(); err != nil {
		t.Errorf("second SignOut: %v", err)
	}
}

func TestCorruptSessionTreatedAsSignedOut(t *testing.T) {
	m, storage := newTestManager(t)

	if err := storage.SetItem(localstore.KeySession, "{broken"); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	if _, err := m.Current(); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("Current with corrupt payload = %v, want ErrNotSignedIn", err)
	}
	// The unreadable payload is cleared.
	if _, err := storage.GetItem(localstore.KeySession); !errors.Is(err, localstore.ErrNoItem) {
		t.Errorf("corrupt session not removed: %v", err)
	}
}
