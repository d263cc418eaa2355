package signup

import (
	"fmt"

	"github.com/dmitrymomot/carematch/pkg/validator"
	"github.com/dmitrymomot/carematch/svc/profile"
)

// Form field names shared by the sign-up forms and the API.
const (
	FieldDisplayName = "displayName"
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldEmail       = "email"
	FieldPasswordOne = "passwordOne"
	FieldPasswordTwo = "passwordTwo"
	FieldStreet      = "street"
	FieldCity        = "city"
	FieldState       = "state"
	FieldPincode     = "pincode"
	FieldPhoneNumber = "phoneNumber"
	FieldDOB         = "dob"
	FieldExperience  = "experience"
	FieldSSN         = "ssn"
	FieldBio         = "bio"
)

const (
	PasswordMismatchMessage = "Passwords must match"
	EmailTakenMessage       = "Email is already registered"

	blankMessage = "Cannot be empty. Enter valid characters"
	namePattern  = `^[a-zA-Z ]*$`
)

// Password character classes; together they require a lowercase letter, an
// uppercase letter, a digit and a symbol from @$!%*?&, and allow nothing else.
var passwordPatterns = []string{
	`[a-z]`,
	`[A-Z]`,
	`\d`,
	`[@$!%*?&]`,
	`^[A-Za-z\d@$!%*?&]{6,}$`,
}

var commonFields = []validator.Field{
	validator.NewField(FieldDisplayName,
		validator.IsRequired("Display name is required"),
		validator.Matches(namePattern, "Invalid Name"),
		validator.MinLength(3, "Name must be atleast 3 cahracters"),
		validator.MaxLength(40, "Name cannot be greater than 40 cahracters"),
		validator.NotBlank(blankMessage),
	),
	validator.NewField(FieldFirstName,
		validator.IsRequired("First name is required"),
		validator.Matches(namePattern, "Invalid First name"),
		validator.MinLength(3, "First name must be atleast 3 cahracters"),
		validator.MaxLength(40, "First name cannot be greater than 40 cahracters"),
		validator.NotBlank(blankMessage),
	),
	validator.NewField(FieldLastName,
		validator.IsRequired("Last name is required"),
		validator.Matches(namePattern, "Invalid Last name"),
		validator.MinLength(3, "Last name must be atleast 3 characters"),
		validator.MaxLength(40, "Last name cannot be greater than 40 cahracters"),
		validator.NotBlank(blankMessage),
	),
	validator.NewField(FieldEmail,
		validator.IsRequired("Email is required"),
		validator.ValidEmail("Please enter a valid email"),
		validator.NotBlank(blankMessage),
	),
	validator.NewField(FieldPasswordOne,
		validator.IsRequired("Password is required"),
		validator.MinLength(6, "Password must be at least 6 characters"),
		validator.MatchesAll(
			"Password must contain at least one uppercase letter, one lowercase letter, one digit, one special character, and be at least 6 characters long",
			passwordPatterns...,
		),
		validator.NotBlank(blankMessage),
	),
	validator.NewField(FieldPasswordTwo,
		validator.IsRequired("Confirm password is required"),
	),
	validator.NewField(FieldStreet,
		validator.IsRequired("Street is required"),
		validator.MinLength(6, "Street must be at least 6 characters"),
		validator.NotBlank(blankMessage),
	),
	validator.NewField(FieldCity,
		validator.IsRequired("City is required"),
		validator.MinLength(3, "City must be at least 3 characters"),
		validator.Matches(namePattern, "Invalid City name"),
		validator.NotBlank(blankMessage),
	),
	validator.NewField(FieldState,
		validator.IsRequired("State is required"),
		validator.MinLength(3, "State must be at least 3 characters"),
		validator.Matches(namePattern, "Invalid State name"),
		validator.NotBlank(blankMessage),
	),
	validator.NewField(FieldPincode,
		validator.IsRequired("Zip code is required"),
		validator.MinLength(4, "Zip code must be between 4-16 characters"),
		validator.MaxLength(16, "Zip code must be between 4-16 characters"),
		validator.Matches(`^\d+$`, "Pincode must be a number"),
	),
	validator.NewField(FieldPhoneNumber,
		validator.IsRequired("Phone Number is required"),
		validator.Matches(`^\d{10}$`, "Invalid Phone Number"),
	),
	validator.NewField(FieldDOB,
		validator.IsRequired("DOB is required"),
	),
}

var nannyFields = []validator.Field{
	validator.NewField(FieldExperience,
		validator.IsRequired("Experience is required"),
		validator.Matches(`^-?\d*\.?\d{0,2}$`, "Experience must be a number with up to 2 decimal points"),
		validator.InRange(0, 100, "Invalid Experience : Enter between 10-100").AllowEmpty(),
	),
	validator.NewField(FieldSSN,
		validator.IsRequired("SSN is required"),
	),
	validator.NewField(FieldBio,
		validator.IsRequired("Bio is required"),
		validator.MinLength(100, "Bio must be at least 100 characters"),
		validator.NotBlank(blankMessage),
	),
}

var (
	parentSchema = validator.MustRecordSchema(commonFields...)
	nannySchema  = mustExtend(parentSchema, nannyFields...)
)

func mustExtend(base *validator.RecordSchema, fields ...validator.Field) *validator.RecordSchema {
	s, err := base.Extend(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// ParentSchema validates the parent sign-up form. FieldFirstName holds the
// child's first name.
func ParentSchema() *validator.RecordSchema { return parentSchema }

// NannySchema is ParentSchema plus experience, SSN and bio.
func NannySchema() *validator.RecordSchema { return nannySchema }

// SchemaFor returns the schema of role.
func SchemaFor(role profile.Role) (*validator.RecordSchema, error) {
	switch role {
	case profile.RoleParent:
		return parentSchema, nil
	case profile.RoleNanny:
		return nannySchema, nil
	default:
		return nil, fmt.Errorf("%w: %q", profile.ErrInvalidRole, role)
	}
}
