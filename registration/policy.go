package registration

import "fmt"

// ProviderErrorPolicy decides what a failed provider call means to the user.
type ProviderErrorPolicy string

const (
	// PolicySurface shows a localized failure and skips the redirect.
	PolicySurface ProviderErrorPolicy = "surface"
	// PolicyIgnore logs the failure and reports success anyway. Earlier
	// deployments behaved this way.
	PolicyIgnore ProviderErrorPolicy = "ignore"
)

// ParsePolicy converts a config value. Empty means PolicySurface.
func ParsePolicy(s string) (ProviderErrorPolicy, error) {
	switch ProviderErrorPolicy(s) {
	case "", PolicySurface:
		return PolicySurface, nil
	case PolicyIgnore:
		return PolicyIgnore, nil
	}
	return "", fmt.Errorf("registration: unknown provider error policy %q", s)
}
