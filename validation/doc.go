// Package validation checks registration input.
//
// The rule functions (IsNonEmpty, IsValidEmail, PasswordsMatch) are pure.
// CheckForm applies them in the order the registration flow reports
// failures, and Validate runs go-playground/validator struct tags for the
// JSON API, with a "regemail" tag bound to IsValidEmail.
package validation
