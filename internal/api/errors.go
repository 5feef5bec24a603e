package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors matched by *APIError through errors.Is.
var (
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
)

// Error codes the server puts in structured details.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeWeakPassword       = "WEAK_PASSWORD"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode   int
	Code         string
	Message      string
	Requirements []string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

// Is maps status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	case ErrServer:
		return e.StatusCode >= 500
	}
	return false
}

// HasCode reports whether err is an APIError carrying code.
func HasCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// ErrorMessage returns the server-provided message of err when it is an
// APIError, or err's text otherwise.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

type errorEnvelope struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type structuredDetail struct {
	Code         string   `json:"code"`
	Message      string   `json:"message"`
	Requirements []string `json:"requirements"`
}

type validationItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// newAPIError decodes the error body. detail may be a string, an object
// with code and message, or a list of validation errors.
func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		e.Message = strings.TrimSpace(string(body))
		return e
	}

	if len(env.Detail) > 0 {
		var text string
		var obj structuredDetail
		var items []validationItem
		switch {
		case json.Unmarshal(env.Detail, &text) == nil:
			e.Message = text
		case json.Unmarshal(env.Detail, &obj) == nil:
			e.Code = obj.Code
			e.Message = obj.Message
			e.Requirements = obj.Requirements
		case json.Unmarshal(env.Detail, &items) == nil:
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				msgs = append(msgs, validationMessage(it))
			}
			e.Message = strings.Join(msgs, "; ")
		}
	}
	if e.Message == "" {
		e.Message = env.Message
	}
	return e
}

func validationMessage(it validationItem) string {
	parts := make([]string, 0, len(it.Loc))
	for _, l := range it.Loc {
		if s, ok := l.(string); ok && s != "body" && s != "query" && s != "path" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return it.Msg
	}
	return strings.Join(parts, ".") + ": " + it.Msg
}
