package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/carematch/pkg/pg"
)

// DB is satisfied by *pgxpool.Pool and pgx.Tx.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps parents and nannies in separate tables and maps user
// ids to roles in user_roles.
type PostgresStore struct {
	db  DB
	ssn FieldCipher
}

// FieldCipher encrypts a single column value. *secrets.Cipher implements it.
type FieldCipher interface {
	EncryptString(plaintext string) (string, error)
	DecryptString(ciphertext string) (string, error)
}

// PostgresOption configures PostgresStore.
type PostgresOption func(*PostgresStore)

// WithSSNCipher stores nanny SSNs encrypted. Without it they are stored as
// plain digits.
func WithSSNCipher(c FieldCipher) PostgresOption {
	return func(s *PostgresStore) {
		s.ssn = c
	}
}

// NewPostgresStore wraps a pgx pool. Apply Migrations before use.
func NewPostgresStore(db DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const (
	insertRoleQuery = `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`

	insertParentQuery = `INSERT INTO parents (
		id, display_name, first_name, last_name, email, phone_number, dob,
		street, city, state, pincode, image, password_hash, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	insertNannyQuery = `INSERT INTO nannies (
		id, display_name, first_name, last_name, email, phone_number, dob,
		street, city, state, pincode, image, password_hash, created_at,
		experience, ssn, bio
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	selectParentQuery = `SELECT
		id, display_name, first_name, last_name, email, phone_number, dob,
		street, city, state, pincode, image, password_hash, created_at
	FROM parents WHERE id = $1`

	selectNannyQuery = `SELECT
		id, display_name, first_name, last_name, email, phone_number, dob,
		street, city, state, pincode, image, password_hash, created_at,
		experience, ssn, bio
	FROM nannies WHERE id = $1`

	selectRoleQuery = `SELECT role FROM user_roles WHERE user_id = $1`

	updateParentImageQuery = `UPDATE parents SET image = $2 WHERE id = $1`
	updateNannyImageQuery  = `UPDATE nannies SET image = $2 WHERE id = $1`
)

func (s *PostgresStore) Create(ctx context.Context, p *Profile) error {
	if err := p.validate(); err != nil {
		return err
	}

	args := []any{
		p.ID, p.DisplayName, p.FirstName, p.LastName, p.Email, p.PhoneNumber, p.DOB,
		p.Street, p.City, p.State, p.Pincode, p.Image, p.PasswordHash, p.CreatedAt,
	}
	query := insertParentQuery
	if p.Role == RoleNanny {
		ssn, err := s.encryptSSN(p.SSN)
		if err != nil {
			return errors.Join(ErrFailedToCreate, err)
		}
		query = insertNannyQuery
		args = append(args, p.Experience, ssn, p.Bio)
	}

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertRoleQuery, p.ID, string(p.Role)); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, query, args...)
		return err
	})
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.ConstraintName == "user_roles_pkey" {
				return fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
			}
			return ErrDuplicateEmail
		}
		return errors.Join(ErrFailedToCreate, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID, role Role) (*Profile, error) {
	p := &Profile{Role: role}
	dest := []any{
		&p.ID, &p.DisplayName, &p.FirstName, &p.LastName, &p.Email, &p.PhoneNumber, &p.DOB,
		&p.Street, &p.City, &p.State, &p.Pincode, &p.Image, &p.PasswordHash, &p.CreatedAt,
	}

	var query string
	switch role {
	case RoleParent:
		query = selectParentQuery
	case RoleNanny:
		query = selectNannyQuery
		dest = append(dest, &p.Experience, &p.SSN, &p.Bio)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	if err := s.db.QueryRow(ctx, query, id).Scan(dest...); err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrFailedToGet, err)
	}

	if role == RoleNanny {
		ssn, err := s.decryptSSN(p.SSN)
		if err != nil {
			return nil, errors.Join(ErrFailedToGet, err)
		}
		p.SSN = ssn
	}
	return p, nil
}

func (s *PostgresStore) Role(ctx context.Context, id uuid.UUID) (Role, error) {
	var role string
	if err := s.db.QueryRow(ctx, selectRoleQuery, id).Scan(&role); err != nil {
		if pg.IsNotFoundError(err) {
			return "", ErrNotFound
		}
		return "", errors.Join(ErrFailedToGetRole, err)
	}
	return ParseRole(role)
}

func (s *PostgresStore) UpdateImage(ctx context.Context, id uuid.UUID, role Role, url string) error {
	var query string
	switch role {
	case RoleParent:
		query = updateParentImageQuery
	case RoleNanny:
		query = updateNannyImageQuery
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	tag, err := s.db.Exec(ctx, query, id, url)
	if err != nil {
		return errors.Join(ErrFailedToUpdate, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) encryptSSN(ssn string) (string, error) {
	if s.ssn == nil || ssn == "" {
		return ssn, nil
	}
	return s.ssn.EncryptString(ssn)
}

func (s *PostgresStore) decryptSSN(stored string) (string, error) {
	if s.ssn == nil || stored == "" {
		return stored, nil
	}
	return s.ssn.DecryptString(stored)
}
