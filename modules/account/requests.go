package account

import (
	"mime/multipart"

	"github.com/google/uuid"

	"github.com/dmitrymomot/carematch/pkg/validator"
	"github.com/dmitrymomot/carematch/svc/signup"
)

// SignupForm carries the raw sign-up field values. Nanny-only fields are
// ignored for parents.
type SignupForm struct {
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PasswordOne string `json:"passwordOne"`
	PasswordTwo string `json:"passwordTwo"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	PhoneNumber string `json:"phoneNumber"`
	DOB         string `json:"dob"`
	Experience  string `json:"experience"`
	SSN         string `json:"ssn"`
	Bio         string `json:"bio"`
}

// Record returns the form as a validator record keyed by field name.
func (f SignupForm) Record() validator.Record {
	return validator.Record{
		signup.FieldDisplayName: f.DisplayName,
		signup.FieldFirstName:   f.FirstName,
		signup.FieldLastName:    f.LastName,
		signup.FieldEmail:       f.Email,
		signup.FieldPasswordOne: f.PasswordOne,
		signup.FieldPasswordTwo: f.PasswordTwo,
		signup.FieldStreet:      f.Street,
		signup.FieldCity:        f.City,
		signup.FieldState:       f.State,
		signup.FieldPincode:     f.Pincode,
		signup.FieldPhoneNumber: f.PhoneNumber,
		signup.FieldDOB:         f.DOB,
		signup.FieldExperience:  f.Experience,
		signup.FieldSSN:         f.SSN,
		signup.FieldBio:         f.Bio,
	}
}

type SignupRequest struct {
	Role string `path:"role" json:"-"`
	SignupForm
}

// ValidateRequest asks for the visible errors of a partially filled form.
// A missing touched list shows the errors of every field.
type ValidateRequest struct {
	Role    string            `path:"role" json:"-"`
	Values  map[string]string `json:"values"`
	Touched []string          `json:"touched"`
}

// LiveRequest is read from DataStar signals on every keystroke. Field holds
// the raw input and Previous its committed value before the keystroke.
type LiveRequest struct {
	Role     string            `path:"role" json:"-"`
	Values   map[string]string `json:"values"`
	Touched  []string          `json:"touched"`
	Field    string            `json:"field"`
	Previous string            `json:"previous"`
}

// LiveSignals is patched back to the client. Errors holds every schema field;
// an empty message clears the field's error.
type LiveSignals struct {
	Values  map[string]string `json:"values"`
	Touched []string          `json:"touched"`
	Errors  map[string]string `json:"errors"`
}

type ProfileRequest struct {
	ID uuid.UUID `path:"id"`
}

type PhotoUploadRequest struct {
	ID    uuid.UUID             `path:"id"`
	Role  string                `form:"role"`
	Photo *multipart.FileHeader `file:"photo"`
}

type PhotoConfirmRequest struct {
	ID   uuid.UUID `path:"id" json:"-"`
	Role string    `json:"role"`
	URL  string    `json:"url"`
}

// PhotoResponse is returned after a photo was recorded on a profile.
type PhotoResponse struct {
	URL string `json:"url"`
}
