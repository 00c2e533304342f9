package validation

import "regexp"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsNonEmpty reports whether s has at least one byte. Whitespace counts.
func IsNonEmpty(s string) bool {
	return s != ""
}

// IsValidEmail reports whether s looks like local@domain.tld.
// The check is syntactic; no DNS lookup is made.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// PasswordsMatch reports whether the confirmation equals the password exactly.
func PasswordsMatch(password, confirm string) bool {
	return password == confirm
}
