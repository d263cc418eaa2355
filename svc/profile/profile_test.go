package profile_test

import (
	"context"
	"encoding/json"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/carematch/svc/profile"
)

func newNanny() *profile.Profile {
	return &profile.Profile{
		ID:           uuid.New(),
		Role:         profile.RoleNanny,
		DisplayName:  "Mary Poppins",
		FirstName:    "Mary",
		LastName:     "Poppins",
		Email:        "mary@example.com",
		PhoneNumber:  "5551234567",
		DOB:          "1990-01-01",
		Street:       "17 Cherry Tree Lane",
		City:         "Austin",
		State:        "Texas",
		Pincode:      "73301",
		Experience:   "12.5",
		SSN:          "123-45-6789",
		Bio:          "Practically perfect in every way.",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    profile.Role
		wantErr bool
	}{
		{"parent", profile.RoleParent, false},
		{"nanny", profile.RoleNanny, false},
		{" Nanny ", profile.RoleNanny, false},
		{"admin", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := profile.ParseRole(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, profile.ErrInvalidRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfile_Public(t *testing.T) {
	t.Parallel()

	p := newNanny()
	pub := p.Public()

	assert.Equal(t, "***-**-6789", pub.SSN)
	assert.Empty(t, pub.PasswordHash)
	assert.Equal(t, "123-45-6789", p.SSN, "original is untouched")

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "passwordHash")
	assert.NotContains(t, string(data), "$2a$10$hash")
	assert.Contains(t, string(data), `"displayName":"Mary Poppins"`)

	var nilProfile *profile.Profile
	assert.Nil(t, nilProfile.Public())
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := profile.NewMemoryStore()
	nanny := newNanny()

	require.NoError(t, store.Create(ctx, nanny))

	t.Run("get returns a copy", func(t *testing.T) {
		got, err := store.Get(ctx, nanny.ID, profile.RoleNanny)
		require.NoError(t, err)
		assert.Equal(t, nanny, got)

		got.City = "Dallas"
		again, err := store.Get(ctx, nanny.ID, profile.RoleNanny)
		require.NoError(t, err)
		assert.Equal(t, "Austin", again.City)
	})

	t.Run("wrong role table", func(t *testing.T) {
		_, err := store.Get(ctx, nanny.ID, profile.RoleParent)
		assert.ErrorIs(t, err, profile.ErrNotFound)
	})

	t.Run("role", func(t *testing.T) {
		role, err := store.Role(ctx, nanny.ID)
		require.NoError(t, err)
		assert.Equal(t, profile.RoleNanny, role)

		_, err = store.Role(ctx, uuid.New())
		assert.ErrorIs(t, err, profile.ErrNotFound)
	})

	t.Run("duplicates", func(t *testing.T) {
		assert.ErrorIs(t, store.Create(ctx, nanny), profile.ErrDuplicateID)

		other := newNanny()
		other.Email = "MARY@example.com"
		assert.ErrorIs(t, store.Create(ctx, other), profile.ErrDuplicateEmail)

		parent := newNanny()
		parent.Role = profile.RoleParent
		assert.NoError(t, store.Create(ctx, parent), "emails are unique per role")
	})

	t.Run("invalid profiles", func(t *testing.T) {
		assert.ErrorIs(t, store.Create(ctx, nil), profile.ErrInvalidProfile)
		assert.ErrorIs(t, store.Create(ctx, &profile.Profile{Role: profile.RoleParent}), profile.ErrInvalidProfile)
		assert.ErrorIs(t, store.Create(ctx, &profile.Profile{ID: uuid.New(), Role: "admin"}), profile.ErrInvalidRole)
	})

	t.Run("update image", func(t *testing.T) {
		require.NoError(t, store.UpdateImage(ctx, nanny.ID, profile.RoleNanny, "https://cdn/x.png"))
		got, err := store.Get(ctx, nanny.ID, profile.RoleNanny)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/x.png", got.Image)

		assert.ErrorIs(t, store.UpdateImage(ctx, nanny.ID, profile.RoleParent, "x"), profile.ErrNotFound)
	})
}

func TestMemoryStore_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := profile.NewMemoryStore()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := newNanny()
			p.Email = p.ID.String() + "@example.com"
			assert.NoError(t, store.Create(ctx, p))
			_, err := store.Role(ctx, p.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestDirectory_Lookup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := profile.NewMemoryStore()
	nanny := newNanny()
	require.NoError(t, store.Create(ctx, nanny))

	dir := profile.NewDirectory(store)

	got, err := dir.Lookup(ctx, nanny.ID)
	require.NoError(t, err)
	assert.Equal(t, nanny.ID, got.ID)
	assert.Equal(t, profile.RoleNanny, got.Role)

	_, err = dir.Lookup(ctx, uuid.New())
	assert.ErrorIs(t, err, profile.ErrNotFound)

	t.Run("uses the configured role resolver", func(t *testing.T) {
		resolver := roleResolverFunc(func(context.Context, uuid.UUID) (profile.Role, error) {
			return profile.RoleParent, nil
		})
		dir := profile.NewDirectory(store, profile.WithRoleResolver(resolver))

		_, err := dir.Lookup(ctx, nanny.ID)
		assert.ErrorIs(t, err, profile.ErrNotFound, "record lives in the nanny table")
	})
}

func TestMigrations(t *testing.T) {
	t.Parallel()

	data, err := fs.ReadFile(profile.Migrations(), "00001_create_profiles.sql")
	require.NoError(t, err)
	assert.Contains(t, string(data), "-- +goose Up")
	assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS nannies")
}

type roleResolverFunc func(context.Context, uuid.UUID) (profile.Role, error)

func (f roleResolverFunc) Role(ctx context.Context, id uuid.UUID) (profile.Role, error) {
	return f(ctx, id)
}
