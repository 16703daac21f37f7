package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoToken is returned when an authorized request is attempted without a
// live session. Callers are expected to treat it as a precondition failure
// and no-op; no network call has been made.
var ErrNoToken = errors.New("api: no session token")

// AuthError marks a credential failure: a rejected login/registration or an
// authorized call answered with 401/403.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "authentication failed"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsAuthError attempts to unwrap an error into an AuthError.
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

// ServerRejection captures a non-success response with a structured message,
// possibly carrying a list of itemized validation errors.
type ServerRejection struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *ServerRejection) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request rejected"
	}
	return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
}

// UserMessage concatenates the rejection message with every itemized
// validation error so the actor sees all of them at once.
func (e *ServerRejection) UserMessage() string {
	parts := make([]string, 0, len(e.Errors)+1)
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	parts = append(parts, e.Errors...)
	if len(parts) == 0 {
		return fmt.Sprintf("request rejected (status=%d)", e.StatusCode)
	}
	return strings.Join(parts, "\n")
}

// AsServerRejection attempts to unwrap an error into a ServerRejection.
func AsServerRejection(err error) (*ServerRejection, bool) {
	var rej *ServerRejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// DecodeError marks a malformed body in an otherwise successful response.
// For UI purposes it is treated like a transport failure.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// UserMessage renders an error for the actor. Server rejections expand to
// their full itemized form; everything else falls back to Error().
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if rej, ok := AsServerRejection(err); ok {
		return rej.UserMessage()
	}
	return err.Error()
}

// AsDecodeError attempts to unwrap an error into a DecodeError.
func AsDecodeError(err error) (*DecodeError, bool) {
	var decErr *DecodeError
	if errors.As(err, &decErr) {
		return decErr, true
	}
	return nil, false
}
