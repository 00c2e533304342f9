// Package auth defines the account-creation contract the registration flow
// depends on, and a registry of named implementations.
//
// Implementations live in subpackages:
//
//   - auth/supabase: Supabase GoTrue signup over HTTP
//   - auth/memory:   in-process store for local development and tests
package auth
