package signup

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/carematch/pkg/logger"
	"github.com/dmitrymomot/carematch/pkg/sanitizer"
	"github.com/dmitrymomot/carematch/pkg/validator"
	"github.com/dmitrymomot/carematch/svc/profile"
)

var ErrFailedToHashPassword = errors.New("failed to hash password")

// Service validates sign-up forms and registers new profiles.
type Service struct {
	store profile.Store
	log   *slog.Logger
	cost  int
	now   func() time.Time
	newID func() uuid.UUID
}

// Option configures Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithBcryptCost sets the password hashing cost. Default is bcrypt.DefaultCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.cost = cost
	}
}

// WithClock overrides the time source for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService returns a sign-up service that creates profiles in store.
func NewService(store profile.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   logger.Discard(),
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
		newID: uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks record against the role's schema and returns the errors of
// touched fields. A nil touched set shows every field.
func (s *Service) Validate(role profile.Role, record validator.Record, touched map[string]bool) (validator.Result, error) {
	schema, err := SchemaFor(role)
	if err != nil {
		return nil, err
	}

	res := schema.Validate(record)
	ConfirmPasswords(res, record)
	if touched == nil {
		return res, nil
	}
	return res.Visible(touched), nil
}

// Register validates the whole record, including the password confirmation,
// and creates the profile. Validation failures are returned as
// validator.ValidationErrors.
func (s *Service) Register(ctx context.Context, role profile.Role, record validator.Record) (*profile.Profile, error) {
	res, err := s.Validate(role, record, nil)
	if err != nil {
		return nil, err
	}
	if !res.Valid() {
		return nil, res.Err()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(record.Get(FieldPasswordOne)), s.cost)
	if err != nil {
		return nil, errors.Join(ErrFailedToHashPassword, err)
	}

	p := &profile.Profile{
		ID:           s.newID(),
		Role:         role,
		DisplayName:  sanitizer.NormalizeWhitespace(record.Get(FieldDisplayName)),
		FirstName:    sanitizer.NormalizeWhitespace(record.Get(FieldFirstName)),
		LastName:     sanitizer.NormalizeWhitespace(record.Get(FieldLastName)),
		Email:        sanitizer.NormalizeEmail(record.Get(FieldEmail)),
		PhoneNumber:  sanitizer.NormalizePhone(record.Get(FieldPhoneNumber)),
		DOB:          strings.TrimSpace(record.Get(FieldDOB)),
		Street:       sanitizer.NormalizeWhitespace(record.Get(FieldStreet)),
		City:         sanitizer.NormalizeWhitespace(record.Get(FieldCity)),
		State:        sanitizer.NormalizeWhitespace(record.Get(FieldState)),
		Pincode:      strings.TrimSpace(record.Get(FieldPincode)),
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if role == profile.RoleNanny {
		p.Experience = strings.TrimSpace(record.Get(FieldExperience))
		p.SSN = sanitizer.NormalizeSSN(record.Get(FieldSSN))
		p.Bio = strings.TrimSpace(record.Get(FieldBio))
	}

	if err := s.store.Create(ctx, p); err != nil {
		if errors.Is(err, profile.ErrDuplicateEmail) {
			return nil, validator.ValidationErrors{{Field: FieldEmail, Message: EmailTakenMessage}}
		}
		s.log.ErrorContext(ctx, "failed to create profile",
			logger.Component("signup"),
			logger.Role(role),
			logger.Error(err),
		)
		return nil, err
	}

	s.log.InfoContext(ctx, "profile registered",
		logger.Component("signup"),
		logger.UserID(p.ID),
		logger.Role(role),
	)
	return p, nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(p *profile.Profile, password string) bool {
	if p == nil || p.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) == nil
}

// ConfirmPasswords adds the confirmation mismatch to res unless the
// confirmation field already failed.
func ConfirmPasswords(res validator.Result, record validator.Record) {
	if res.Has(FieldPasswordTwo) {
		return
	}
	if record.Get(FieldPasswordOne) != record.Get(FieldPasswordTwo) {
		res[FieldPasswordTwo] = PasswordMismatchMessage
	}
}
