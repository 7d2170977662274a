package provider

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Backend codes the front-end reacts to.
const (
	CodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	CodeAssetNotPublished    = "ASSET_NOT_PUBLISHED"
)

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrAssetNotPublished    = errors.New("asset not published")
	ErrPathNotFound         = errors.New("path not found in path index")
)

// ServiceError is a failure reported by the backend inside a response body.
type ServiceError struct {
	Code    string
	Message string
}

// Value returns the message when present, otherwise the code.
func (e *ServiceError) Value() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e *ServiceError) Error() string {
	return "service error: " + e.Value()
}

// Is matches the sentinel errors for the codes the front-end handles.
func (e *ServiceError) Is(target error) bool {
	switch target {
	case ErrAuthenticationFailed:
		return e.Value() == CodeAuthenticationFailed
	case ErrAssetNotPublished:
		return e.Value() == CodeAssetNotPublished
	}
	return false
}

// TransportError is a connection-level failure. It is never retried.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// CheckEnvelope inspects a response body for a service error envelope.
// Bodies that are not JSON objects, or objects of any other shape, are
// successes.
func CheckEnvelope(body []byte) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}

	if raw, ok := envelope["error"]; ok {
		var fields map[string]json.RawMessage
		if json.Unmarshal(raw, &fields) == nil {
			if msg, ok := fields["message"]; ok {
				return &ServiceError{Message: rawString(msg)}
			}
			if code, ok := fields["code"]; ok {
				return &ServiceError{Code: rawString(code)}
			}
		}
	}

	if raw, ok := envelope["response"]; ok {
		var resp struct {
			Code string `json:"code"`
		}
		if json.Unmarshal(raw, &resp) == nil && resp.Code == CodeAuthenticationFailed {
			return &ServiceError{Code: resp.Code}
		}
	}

	return nil
}

// rawString renders a JSON scalar as plain text.
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
