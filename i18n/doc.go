// Package i18n holds the user-visible strings of the registration flow in
// a golang.org/x/text message catalog.
//
// Spanish is the canonical locale: its strings are shown to existing users
// and must not change. English is provided for API clients that ask for it
// with Accept-Language.
package i18n
