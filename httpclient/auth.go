package httpclient

import "net/http"

// AuthConfig adds credentials to a request.
type AuthConfig struct {
	// Bearer is sent as "Authorization: Bearer <token>" when set.
	Bearer string
	// Headers are set verbatim, for API-key style schemes.
	Headers map[string]string
}

// BearerAuth authenticates with a bearer token.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Bearer: token}
}

// APIKeyAuth sends key in the named header.
func APIKeyAuth(header, key string) *AuthConfig {
	return &AuthConfig{Headers: map[string]string{header: key}}
}

// With merges other into a copy of a. Fields of other win.
func (a *AuthConfig) With(other *AuthConfig) *AuthConfig {
	out := &AuthConfig{Headers: map[string]string{}}
	for _, src := range []*AuthConfig{a, other} {
		if src == nil {
			continue
		}
		if src.Bearer != "" {
			out.Bearer = src.Bearer
		}
		for k, v := range src.Headers {
			out.Headers[k] = v
		}
	}
	return out
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	for k, v := range a.Headers {
		req.Header.Set(k, v)
	}
	if a.Bearer != "" {
		req.Header.Set("Authorization", "Bearer "+a.Bearer)
	}
}
