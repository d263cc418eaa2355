// Package signup defines the parent and nanny sign-up forms and registers
// new profiles.
//
// Both schemas are built once at package init and shared read-only. The
// nanny schema extends the parent one with experience, SSN and bio:
//
//	res, _ := svc.Validate(profile.RoleNanny, record, touched)
//	p, err := svc.Register(ctx, profile.RoleNanny, record)
//	if errs := validator.ExtractValidationErrors(err); errs != nil { ... }
//
// The password confirmation is not a schema rule; ConfirmPasswords adds
// "Passwords must match" once the confirmation itself is filled in.
package signup
