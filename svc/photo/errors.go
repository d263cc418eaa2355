package photo

import "errors"

// Messages are shown to the user as-is.
var (
	ErrEmptyFile    = errors.New("File is empty. Please choose a file.")
	ErrInvalidType  = errors.New("Invalid file type. Please choose a PNG, JPEG, or JPG file.")
	ErrFileTooLarge = errors.New("File is too large. Please choose a smaller file.")
	ErrUploadFailed = errors.New("Error uploading image. Please try again.")
	ErrInvalidURL   = errors.New("Invalid image URL.")

	ErrPresignUnavailable = errors.New("direct uploads are not configured")
)
