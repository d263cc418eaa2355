// Package handler provides type-safe HTTP handlers with pluggable request
// binding and a small set of responses.
//
// A handler is a plain function from a Context and a typed request to a
// Response. Wrap turns it into an http.HandlerFunc, running binders in order
// and routing every failure through an ErrorHandler:
//
//	type SignupRequest struct {
//		Role   string            `path:"role"`
//		Values map[string]string `json:"values"`
//	}
//
//	r.Post("/signup/{role}", handler.Wrap(signup,
//		handler.WithBinders[handler.Context, SignupRequest](
//			binder.Path(chi.URLParam),
//			binder.JSON(),
//		),
//		handler.WithErrorHandler[handler.Context, SignupRequest](handler.NewErrorHandler(log)),
//	))
//
// # Responses
//
//   - JSON and JSONError render the {data, meta, error} envelope.
//   - Signals patches DataStar signals over Server-Sent Events.
//
// # Errors
//
// HTTPError carries a status code and a stable key. ValidationError, and
// validator.ValidationErrors anywhere in the chain, render as 422 with a
// per-field details map. Binder failures map to 400, 413 or 415. Everything
// else is a 500 whose message is not exposed.
package handler
