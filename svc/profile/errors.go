package profile

import "errors"

var (
	ErrNotFound        = errors.New("profile not found")
	ErrInvalidRole     = errors.New("invalid role")
	ErrDuplicateEmail  = errors.New("email is already registered")
	ErrDuplicateID     = errors.New("profile id already exists")
	ErrFailedToCreate  = errors.New("failed to create profile")
	ErrFailedToGet     = errors.New("failed to get profile")
	ErrFailedToUpdate  = errors.New("failed to update profile")
	ErrFailedToGetRole = errors.New("failed to resolve user role")
	ErrRoleCacheFailed = errors.New("role cache operation failed")
	ErrInvalidProfile  = errors.New("invalid profile")
)
