package profile

import (
	"context"

	"github.com/google/uuid"
)

// Directory resolves a user id to its role-specific profile.
type Directory struct {
	store Store
	roles RoleResolver
}

// DirectoryOption configures Directory.
type DirectoryOption func(*Directory)

// WithRoleResolver replaces the store's own role lookup, typically with a
// RoleCache.
func WithRoleResolver(r RoleResolver) DirectoryOption {
	return func(d *Directory) {
		if r != nil {
			d.roles = r
		}
	}
}

// NewDirectory returns a Directory backed by store.
func NewDirectory(store Store, opts ...DirectoryOption) *Directory {
	d := &Directory{store: store, roles: store}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Lookup resolves the role of id, then loads the matching record.
// Returns ErrNotFound when either step finds nothing.
func (d *Directory) Lookup(ctx context.Context, id uuid.UUID) (*Profile, error) {
	role, err := d.roles.Role(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.store.Get(ctx, id, role)
}
