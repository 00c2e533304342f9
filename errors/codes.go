package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Registration form errors. Each maps to one localized message in package i18n.
const (
	// ErrCodeEmailEmpty indicates the email field was left blank.
	ErrCodeEmailEmpty ErrorCode = "EMAIL_EMPTY"
	// ErrCodeEmailInvalid indicates the email is not syntactically valid.
	ErrCodeEmailInvalid ErrorCode = "EMAIL_INVALID"
	// ErrCodePasswordEmpty indicates the password field was left blank.
	ErrCodePasswordEmpty ErrorCode = "PASSWORD_EMPTY"
	// ErrCodePasswordMismatch indicates password and confirmation differ.
	ErrCodePasswordMismatch ErrorCode = "PASSWORD_MISMATCH"
)

// Submission errors
const (
	// ErrCodeSignupRejected indicates the auth provider refused the signup.
	ErrCodeSignupRejected ErrorCode = "SIGNUP_REJECTED"
	// ErrCodeSubmissionInFlight indicates a submission is already running for the session.
	ErrCodeSubmissionInFlight ErrorCode = "SUBMISSION_IN_FLIGHT"
	// ErrCodeEmailTaken indicates the provider already has an account for the email.
	ErrCodeEmailTaken ErrorCode = "EMAIL_TAKEN"
	// ErrCodeWeakPassword indicates the provider refused the password.
	ErrCodeWeakPassword ErrorCode = "WEAK_PASSWORD"
)

// Generic errors
const (
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeRateLimited     ErrorCode = "RATE_LIMITED"
	ErrCodeTimeout         ErrorCode = "TIMEOUT"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:         true,
	ErrCodeRateLimited:     true,
	ErrCodeExternalService: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// IsFormCode reports whether code is one of the registration form codes.
func IsFormCode(code ErrorCode) bool {
	switch code {
	case ErrCodeEmailEmpty, ErrCodeEmailInvalid, ErrCodePasswordEmpty, ErrCodePasswordMismatch:
		return true
	}
	return false
}
