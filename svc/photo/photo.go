package photo

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/carematch/pkg/file"
	"github.com/dmitrymomot/carematch/pkg/logger"
	"github.com/dmitrymomot/carematch/svc/profile"
)

// AllowedTypes lists the accepted profile photo MIME types.
var AllowedTypes = []string{"image/png", "image/jpeg", "image/jpg"}

// ImageStore persists the photo URL on a profile record.
type ImageStore interface {
	UpdateImage(ctx context.Context, id uuid.UUID, role profile.Role, url string) error
}

// PresignedUpload is handed to the browser for a direct upload.
type PresignedUpload struct {
	UploadURL string    `json:"uploadUrl"`
	PublicURL string    `json:"publicUrl"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service stores profile photos.
type Service struct {
	storage   file.Storage
	presigner file.Presigner
	store     ImageStore
	log       *slog.Logger
	ttl       time.Duration
	maxSize   int64
	now       func() time.Time
}

// Option configures Service.
type Option func(*Service)

// WithPresigner enables Presign.
func WithPresigner(p file.Presigner) Option {
	return func(s *Service) {
		s.presigner = p
	}
}

// WithLogger sets the logger. Failures are logged with their cause.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithPresignTTL sets how long a presigned URL stays valid. Default is 60s.
func WithPresignTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxSize caps server-side uploads. Default is 5 MiB.
func WithMaxSize(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// NewService returns a photo service writing objects to storage and URLs to store.
func NewService(storage file.Storage, store ImageStore, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		store:   store,
		log:     logger.Discard(),
		ttl:     time.Minute,
		maxSize: 5 << 20,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ObjectKey is the storage key of a user's photo.
func ObjectKey(userID uuid.UUID) string {
	return "profiles/" + userID.String() + "/photo"
}

// Presign returns a short-lived PUT URL for the user's photo and the public
// URL the object will be served from.
func (s *Service) Presign(ctx context.Context, userID uuid.UUID) (*PresignedUpload, error) {
	if s.presigner == nil {
		return nil, ErrPresignUnavailable
	}

	signed, err := s.presigner.PresignPut(ctx, ObjectKey(userID), "", s.ttl)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to presign photo upload",
			logger.Component("photo"),
			logger.UserID(userID),
			logger.Error(err),
		)
		return nil, errors.Join(ErrUploadFailed, err)
	}

	return &PresignedUpload{
		UploadURL: signed,
		PublicURL: file.StripQuery(signed),
		Method:    "PUT",
		ExpiresAt: s.now().Add(s.ttl),
	}, nil
}

// Confirm records the public URL after a direct upload finished. Only the
// URL of the user's own object is accepted; a query string is ignored.
func (s *Service) Confirm(ctx context.Context, userID uuid.UUID, role profile.Role, url string) (string, error) {
	public := file.StripQuery(url)
	if public == "" || public != s.storage.URL(ObjectKey(userID)) {
		return "", ErrInvalidURL
	}

	if err := s.store.UpdateImage(ctx, userID, role, public); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return "", err
		}
		s.log.ErrorContext(ctx, "failed to save photo url",
			logger.Component("photo"),
			logger.UserID(userID),
			logger.Role(role),
			logger.Error(err),
		)
		return "", errors.Join(ErrUploadFailed, err)
	}
	return public, nil
}

// Upload validates the file, stores it and records its URL on the profile.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, role profile.Role, fh *multipart.FileHeader) (string, error) {
	if err := file.ValidateNotEmpty(fh); err != nil {
		return "", ErrEmptyFile
	}
	if err := file.ValidateSize(fh, s.maxSize); err != nil {
		return "", ErrFileTooLarge
	}
	if err := file.ValidateMIMEType(fh, AllowedTypes...); err != nil {
		if errors.Is(err, file.ErrMIMETypeNotAllowed) {
			return "", ErrInvalidType
		}
		return "", s.fail(ctx, userID, role, "failed to read photo", err)
	}

	stored, err := s.storage.Save(ctx, fh, ObjectKey(userID))
	if err != nil {
		return "", s.fail(ctx, userID, role, "failed to store photo", err)
	}

	url := s.storage.URL(stored.Path)
	if err := s.store.UpdateImage(ctx, userID, role, url); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			_ = s.storage.Delete(ctx, stored.Path)
			return "", err
		}
		return "", s.fail(ctx, userID, role, "failed to save photo url", err)
	}

	s.log.InfoContext(ctx, "profile photo uploaded",
		logger.Component("photo"),
		logger.UserID(userID),
		logger.Role(role),
		slog.Int64("size", stored.Size),
		slog.String("mime_type", stored.MIMEType),
	)
	return url, nil
}

func (s *Service) fail(ctx context.Context, userID uuid.UUID, role profile.Role, msg string, err error) error {
	s.log.ErrorContext(ctx, msg,
		logger.Component("photo"),
		logger.UserID(userID),
		logger.Role(role),
		logger.Error(err),
	)
	return errors.Join(ErrUploadFailed, err)
}
