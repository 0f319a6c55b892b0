// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cloudhost/hostcms/internal/auth"
	"github.com/cloudhost/hostcms/internal/model"
)

const userColumns = `id, name, email, password_hash, role, status, last_active, created_at`

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var (
		u          model.User
		lastActive sql.NullString
		createdAt  string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &lastActive, &createdAt)
	if err != nil {
		return model.User{}, err
	}
	u.LastActiveAt = parseNullTime(lastActive)
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

// GetUsers returns all users ordered by creation time.
func (s *Store) GetUsers(ctx context.Context) ([]model.User, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, classify("listing users", err)
	}
	defer func() { _ = rows.Close() }()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, classify("scanning user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("listing users", err)
	}
	return users, nil
}

// getUserByEmail is the shared lookup behind authentication.
func (s *Store) getUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return model.User{}, classify("looking up user", err)
	}
	return u, nil
}

// CreateUserParams are the inputs for CreateUser. The password is
// hashed before storage; plaintext credentials never reach a row.
type CreateUserParams struct {
	Name     string
	Email    string
	Password string
	Role     string
	Status   string
}

// CreateUser inserts a new user and persists the image. A duplicate
// email fails with ErrConstraint.
func (s *Store) CreateUser(ctx context.Context, params CreateUserParams) (model.User, error) {
	if err := s.ensureReady(ctx); err != nil {
		return model.User{}, err
	}
	if !model.ValidRole(params.Role) {
		return model.User{}, fmt.Errorf("creating user: %w: unknown role %q", ErrStore, params.Role)
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("creating user: %w: %v", ErrStore, err)
	}

	u := model.User{
		ID:           s.newID(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hash,
		Role:         params.Role,
		Status:       params.Status,
		CreatedAt:    s.now(),
	}
	if u.Status == "" {
		u.Status = model.UserStatusActive
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Status, fmtTime(u.CreatedAt),
	); err != nil {
		return model.User{}, classify("creating user", err)
	}

	if err := s.persistImage(ctx); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// AuthenticateUser verifies a credential against the stored hash. On a
// miss of the email it returns ErrNotFound; on a hash mismatch,
// ErrInvalidCredential. A successful authentication updates the user's
// last-active timestamp and persists the image. When the stored hash
// predates the current parameters it is transparently re-created.
func (s *Store) AuthenticateUser(ctx context.Context, email, password string) (model.User, error) {
	if err := s.ensureReady(ctx); err != nil {
		return model.User{}, err
	}

	u, err := s.getUserByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}

	ok, err := auth.CheckPassword(password, u.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("authenticating: %w: %v", ErrStore, err)
	}
	if !ok {
		return model.User{}, fmt.Errorf("authenticating %q: %w", email, ErrInvalidCredential)
	}

	now := s.now()
	u.LastActiveAt = sql.NullTime{Time: now, Valid: true}

	if auth.NeedsRehash(u.PasswordHash) {
		if rehash, herr := auth.HashPassword(password); herr == nil {
			u.PasswordHash = rehash
		}
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_active = ?, password_hash = ? WHERE id = ?`,
		fmtTime(now), u.PasswordHash, u.ID,
	); err != nil {
		return model.User{}, classify("updating last active", err)
	}

	if err := s.persistImage(ctx); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// UpdateUserStatus switches a user between active and inactive.
func (s *Store) UpdateUserStatus(ctx context.Context, id, status string) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}
	if status != model.UserStatusActive && status != model.UserStatusInactive {
		return fmt.Errorf("updating user status: %w: unknown status %q", ErrStore, status)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return classify("updating user status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("updating user status: %w", ErrNotFound)
	}
	return s.persistImage(ctx)
}

// DeleteUser removes a user durably.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return classify("deleting user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting user: %w", ErrNotFound)
	}
	return s.persistImage(ctx)
}
