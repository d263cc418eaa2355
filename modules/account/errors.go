package account

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/carematch/handler"
	"github.com/dmitrymomot/carematch/svc/photo"
	"github.com/dmitrymomot/carematch/svc/profile"
)

const (
	fieldRole  = "role"
	fieldPhoto = "photo"
	fieldURL   = "url"

	invalidRoleMessage = "Role must be parent or nanny"
)

// ErrUploadFailed is the API form of photo.ErrUploadFailed.
var ErrUploadFailed = handler.NewHTTPError(http.StatusBadGateway, "upload_failed").
	WithMessage(photo.ErrUploadFailed.Error())

// photoError maps photo service errors to API errors. User-facing messages
// are kept as they are.
func photoError(err error) error {
	switch {
	case errors.Is(err, profile.ErrNotFound):
		return handler.ErrNotFound
	case errors.Is(err, photo.ErrPresignUnavailable):
		return handler.ErrServiceUnavailable
	case errors.Is(err, photo.ErrEmptyFile), errors.Is(err, photo.ErrInvalidType), errors.Is(err, photo.ErrFileTooLarge):
		return fieldError(fieldPhoto, err.Error())
	case errors.Is(err, photo.ErrInvalidURL):
		return fieldError(fieldURL, err.Error())
	case errors.Is(err, photo.ErrUploadFailed):
		return errors.Join(ErrUploadFailed, err)
	}
	return err
}

func fieldError(field, message string) handler.ValidationError {
	verr := handler.NewValidationError()
	verr.Add(field, message)
	return verr
}
