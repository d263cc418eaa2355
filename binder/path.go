package binder

import (
	"fmt"
	"net/http"
	"reflect"
)

// Path binds router parameters into fields tagged `path:"name"` using the
// given extractor, e.g. chi.URLParam.
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrInvalidPath)
		}

		return eachField(v, ErrInvalidPath, func(field reflect.Value, sf reflect.StructField) error {
			name, ok := tagName(sf, "path")
			if !ok {
				return nil
			}
			if value := extractor(r, name); value != "" {
				return setFieldValue(field, value)
			}
			return nil
		})
	}
}
