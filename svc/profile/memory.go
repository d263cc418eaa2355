package profile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps profiles in process memory. Stored values are copied
// on the way in and out.
type MemoryStore struct {
	mu      sync.RWMutex
	roles   map[uuid.UUID]Role
	records map[Role]map[uuid.UUID]Profile
	emails  map[Role]map[string]uuid.UUID
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		roles:   make(map[uuid.UUID]Role),
		records: make(map[Role]map[uuid.UUID]Profile, len(Roles)),
		emails:  make(map[Role]map[string]uuid.UUID, len(Roles)),
	}
	for _, r := range Roles {
		s.records[r] = make(map[uuid.UUID]Profile)
		s.emails[r] = make(map[string]uuid.UUID)
	}
	return s
}

func (s *MemoryStore) Create(ctx context.Context, p *Profile) error {
	if err := p.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[p.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}
	email := strings.ToLower(p.Email)
	if email != "" {
		if _, ok := s.emails[p.Role][email]; ok {
			return ErrDuplicateEmail
		}
		s.emails[p.Role][email] = p.ID
	}

	s.roles[p.ID] = p.Role
	s.records[p.Role][p.ID] = *p
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID, role Role) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.records[role][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) Role(ctx context.Context, id uuid.UUID) (Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.roles[id]
	if !ok {
		return "", ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) UpdateImage(ctx context.Context, id uuid.UUID, role Role, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.records[role][id]
	if !ok {
		return ErrNotFound
	}
	p.Image = url
	s.records[role][id] = p
	return nil
}
