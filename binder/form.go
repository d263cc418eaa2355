package binder

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
)

// DefaultMaxMemory is the default maximum memory used for parsing multipart forms (10MB).
const DefaultMaxMemory = 10 << 20

var fileHeaderType = reflect.TypeOf((*multipart.FileHeader)(nil))

// Form binds application/x-www-form-urlencoded and multipart/form-data
// requests. Fields tagged `form:"name"` receive values, fields tagged
// `file:"name"` of type *multipart.FileHeader receive the first uploaded file.
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		mt, params, err := mediaType(r)
		if err != nil {
			return err
		}

		var (
			values map[string][]string
			files  map[string][]*multipart.FileHeader
		)

		switch mt {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidForm, err)
			}
			values = r.PostForm

		case "multipart/form-data":
			if params["boundary"] == "" {
				return fmt.Errorf("%w: missing boundary in content type", ErrInvalidForm)
			}
			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidForm, err)
			}
			values = r.MultipartForm.Value
			files = r.MultipartForm.File

		default:
			return fmt.Errorf("%w: got %s, expected a form", ErrUnsupportedMediaType, mt)
		}

		return eachField(v, ErrInvalidForm, func(field reflect.Value, sf reflect.StructField) error {
			if name, ok := tagName(sf, "file"); ok {
				if sf.Type != fileHeaderType {
					return fmt.Errorf("file field must be *multipart.FileHeader")
				}
				if fhs := files[name]; len(fhs) > 0 {
					field.Set(reflect.ValueOf(fhs[0]))
				}
				return nil
			}

			if name, ok := tagName(sf, "form"); ok {
				if vals := values[name]; len(vals) > 0 {
					return setFieldValue(field, vals[0])
				}
			}
			return nil
		})
	}
}
