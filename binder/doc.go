// Package binder populates request structs from HTTP requests.
//
// Each binder handles one source and one struct tag:
//
//	JSON()          request body      `json:"..."`
//	Form()          form and files    `form:"..."`, `file:"..."`
//	Path(extractor) router params     `path:"..."`
//
// Binders are plain functions and compose through handler.WithBinders:
//
//	type PhotoUploadRequest struct {
//		UserID uuid.UUID             `path:"id"`
//		Role   string                `form:"role"`
//		Photo  *multipart.FileHeader `file:"photo"`
//	}
//
// Scalar fields accept strings, integers, floats, booleans and any type
// implementing encoding.TextUnmarshaler (uuid.UUID included).
package binder
