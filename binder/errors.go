package binder

import "errors"

// Common binding errors
var (
	// ErrNotApplicable is returned when a binder does not handle the request.
	// handler.Wrap skips such binders.
	ErrNotApplicable        = errors.New("binder not applicable")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrInvalidJSON          = errors.New("invalid JSON")
	ErrInvalidForm          = errors.New("invalid form data")
	ErrInvalidPath          = errors.New("invalid path parameter")
)
