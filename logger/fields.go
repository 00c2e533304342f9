package logger

import "time"

// Standard field keys.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldSessionID  = "session_id"
	FieldOperation  = "operation"
	FieldPhase      = "phase"
	FieldStatus     = "status"
	FieldBytes      = "bytes"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldEmailHash  = "email_hash"
	FieldField      = "field"
	FieldCode       = "code"
	FieldProviderID = "provider_user_id"
)

// Fields builds a field map from alternating key-value pairs.
// Non-string keys and a trailing odd value are dropped.
//
//	logger.Info("done", logger.Fields("op", "signup", "attempt", 2))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}
