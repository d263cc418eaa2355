// Package account exposes the sign-up, profile and photo HTTP API.
//
// Routes (relative to the mount point):
//
//	GET  /health                        dependency health
//	GET  /states                        US states for the address form
//	POST /signup/{role}                 register a parent or nanny
//	POST /signup/{role}/validate        visible errors of a partial form
//	POST /signup/{role}/live            DataStar keystroke feedback over SSE
//	GET  /profiles/{id}                 profile lookup
//	GET  /profiles/{id}/photo/presign   presigned direct upload
//	POST /profiles/{id}/photo           multipart photo upload
//	PUT  /profiles/{id}/photo           confirm a direct upload
//
// Responses use the handler package JSON envelope. Validation failures are
// 422 with a message per field. An unknown role in the path is 404.
//
// With RouterOptions.RateLimiter set, registration and photo uploads are
// limited per client IP and answer 429 when the bucket is empty.
package account
