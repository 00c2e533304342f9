package supabase

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/kbukum/signup/auth"
)

// APIError is a refusal returned by GoTrue.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %s (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("supabase: HTTP %d: %s", e.Status, e.Message)
}

// Reason maps the GoTrue error code to an auth reason.
func (e *APIError) Reason() string {
	switch e.Code {
	case "user_already_exists", "email_exists":
		return auth.ReasonEmailTaken
	case "weak_password":
		return auth.ReasonWeakPassword
	case "over_request_rate_limit", "over_email_send_rate_limit":
		return auth.ReasonRateLimited
	case "signup_disabled", "email_provider_disabled":
		return auth.ReasonSignupDisabled
	}
	switch {
	case e.Status == http.StatusTooManyRequests:
		return auth.ReasonRateLimited
	case strings.Contains(strings.ToLower(e.Message), "already registered"):
		return auth.ReasonEmailTaken
	}
	return auth.ReasonUnknown
}

// errorBody covers the shapes GoTrue has used over time: "code" is a
// number in older releases and a string in newer ones.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Error            string          `json:"error"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	ErrorDescription string          `json:"error_description"`
}

func parseAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	var b errorBody
	if err := json.Unmarshal(body, &b); err != nil {
		e.Message = strings.TrimSpace(string(body))
		if e.Message == "" {
			e.Message = http.StatusText(status)
		}
		return e
	}

	var code string
	_ = json.Unmarshal(b.Code, &code)
	e.Code = firstNonEmpty(b.ErrorCode, code, b.Error)
	e.Message = firstNonEmpty(b.Msg, b.Message, b.ErrorDescription, http.StatusText(status))
	return e
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
