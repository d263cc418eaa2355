package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/carematch/pkg/sanitizer"
)

// Role selects which record type a user owns.
type Role string

const (
	RoleParent Role = "parent"
	RoleNanny  Role = "nanny"
)

// Roles lists every supported role.
var Roles = []Role{RoleParent, RoleNanny}

// ParseRole accepts role names case-insensitively.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleParent, RoleNanny:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

func (r Role) String() string { return string(r) }

// Valid reports whether r is a supported role.
func (r Role) Valid() bool {
	return r == RoleParent || r == RoleNanny
}

// Profile is a parent or nanny record. For parents FirstName holds the
// child's first name. Experience, SSN and Bio are set for nannies only.
type Profile struct {
	ID          uuid.UUID `json:"id"`
	Role        Role      `json:"role"`
	DisplayName string    `json:"displayName"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phoneNumber"`
	DOB         string    `json:"dob"`
	Street      string    `json:"street"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Pincode     string    `json:"pincode"`
	Image       string    `json:"image,omitempty"`

	Experience string `json:"experience,omitempty"`
	SSN        string `json:"ssn,omitempty"`
	Bio        string `json:"bio,omitempty"`

	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public returns a copy that is safe to hand to clients: the SSN is masked
// down to its last four digits.
func (p *Profile) Public() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.PasswordHash = ""
	if c.SSN != "" {
		c.SSN = sanitizer.MaskSSN(c.SSN)
	}
	return &c
}

func (p *Profile) validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil profile", ErrInvalidProfile)
	}
	if p.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", ErrInvalidProfile)
	}
	if !p.Role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, p.Role)
	}
	return nil
}

// Store persists profiles. Implementations are safe for concurrent use.
type Store interface {
	RoleResolver
	// Create inserts the profile and its role mapping atomically.
	Create(ctx context.Context, p *Profile) error
	// Get loads the role-specific record.
	Get(ctx context.Context, id uuid.UUID, role Role) (*Profile, error)
	// UpdateImage sets the profile photo URL.
	UpdateImage(ctx context.Context, id uuid.UUID, role Role, url string) error
}

// RoleResolver maps a user id to its role.
type RoleResolver interface {
	Role(ctx context.Context, id uuid.UUID) (Role, error)
}
