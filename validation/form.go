package validation

import "github.com/kbukum/signup/errors"

// Form field names, as rendered in the registration page.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
)

// FieldError is the first failing rule of a registration form.
type FieldError struct {
	Field string
	Code  errors.ErrorCode
}

func (e *FieldError) Error() string {
	return e.Field + ": " + string(e.Code)
}

// CheckForm validates a registration form and returns the first failure in
// the order: email empty, email invalid, password empty, mismatch.
// It returns nil for a valid form.
func CheckForm(email, password, confirm string) *FieldError {
	switch {
	case !IsNonEmpty(email):
		return &FieldError{Field: FieldEmail, Code: errors.ErrCodeEmailEmpty}
	case !IsValidEmail(email):
		return &FieldError{Field: FieldEmail, Code: errors.ErrCodeEmailInvalid}
	case !IsNonEmpty(password):
		return &FieldError{Field: FieldPassword, Code: errors.ErrCodePasswordEmpty}
	case !PasswordsMatch(password, confirm):
		return &FieldError{Field: FieldConfirmPassword, Code: errors.ErrCodePasswordMismatch}
	}
	return nil
}
