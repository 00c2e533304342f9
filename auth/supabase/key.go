package supabase

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Key roles issued by Supabase.
const (
	RoleAnon        = "anon"
	RoleService     = "service_role"
	publishablePfx  = "sb_publishable_"
	secretKeyPrefix = "sb_secret_"
)

// ErrPrivilegedKey is returned for keys that bypass row level security.
var ErrPrivilegedKey = errors.New("key is a service_role/secret key; use the anon or publishable key")

// KeyRole returns the role claim of a legacy JWT key, "anon" for a
// publishable key, and "" when the key format is not recognized. The
// signature is not verified: only Supabase can do that.
func KeyRole(key string) string {
	switch {
	case strings.HasPrefix(key, publishablePfx):
		return RoleAnon
	case strings.HasPrefix(key, secretKeyPrefix):
		return RoleService
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

// CheckKey refuses privileged keys.
func CheckKey(key string) error {
	if KeyRole(key) == RoleService {
		return ErrPrivilegedKey
	}
	return nil
}
