// Package photo handles profile photo uploads.
//
// Two paths are supported. Browsers that can upload directly call Presign,
// PUT the image to the returned URL, then call Confirm with the URL so it
// is recorded on the profile. Otherwise Upload accepts a multipart file,
// checks it (non-empty, within the size cap, PNG or JPEG by content) and
// stores it server-side.
//
// Errors meant for the user (ErrEmptyFile, ErrInvalidType, ErrFileTooLarge,
// ErrUploadFailed) carry display-ready messages. Storage and database causes
// are joined to ErrUploadFailed and logged.
package photo
