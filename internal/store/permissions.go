// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"github.com/cloudhost/hostcms/internal/model"
)

// GetPermissions returns all permissions with the roles granted each.
func (s *Store) GetPermissions(ctx context.Context) ([]model.Permission, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, rp.role_name
		FROM permissions p
		LEFT JOIN roles_permissions rp ON rp.permission_id = p.id
		ORDER BY p.name, rp.role_name`)
	if err != nil {
		return nil, classify("listing permissions", err)
	}
	defer func() { _ = rows.Close() }()

	var perms []model.Permission
	index := make(map[string]int)
	for rows.Next() {
		var id, name, description string
		var role *string
		if err := rows.Scan(&id, &name, &description, &role); err != nil {
			return nil, classify("scanning permission", err)
		}
		i, ok := index[id]
		if !ok {
			perms = append(perms, model.Permission{ID: id, Name: name, Description: description})
			i = len(perms) - 1
			index[id] = i
		}
		if role != nil {
			perms[i].GrantedRoles = append(perms[i].GrantedRoles, *role)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, classify("listing permissions", err)
	}
	return perms, nil
}

// TogglePermission flips whether role is granted the permission:
// granted roles are revoked, absent ones granted. Persists the image.
func (s *Store) TogglePermission(ctx context.Context, permissionID, role string) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}
	if !model.ValidRole(role) {
		return fmt.Errorf("toggling permission: %w: unknown role %q", ErrStore, role)
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM permissions WHERE id = ?`, permissionID).Scan(&exists)
	if err != nil {
		return classify("toggling permission", err)
	}
	if exists == 0 {
		return fmt.Errorf("toggling permission: %w", ErrNotFound)
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM roles_permissions WHERE role_name = ? AND permission_id = ?`,
		role, permissionID)
	if err != nil {
		return classify("revoking permission", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO roles_permissions (role_name, permission_id) VALUES (?, ?)`,
			role, permissionID); err != nil {
			return classify("granting permission", err)
		}
	}
	return s.persistImage(ctx)
}
