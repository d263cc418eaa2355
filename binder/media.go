package binder

import (
	"fmt"
	"mime"
	"net/http"
)

// mediaType returns the request media type without parameters.
func mediaType(r *http.Request) (string, map[string]string, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return "", nil, ErrMissingContentType
	}

	mt, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
	}

	return mt, params, nil
}
