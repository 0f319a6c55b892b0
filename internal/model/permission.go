// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Permission describes a named capability and the roles granted it.
type Permission struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	GrantedRoles []string `json:"grantedRoles"`
}

// HasRole reports whether role is granted this permission.
func (p *Permission) HasRole(role string) bool {
	for _, r := range p.GrantedRoles {
		if r == role {
			return true
		}
	}
	return false
}
