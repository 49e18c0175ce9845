package rest

import (
	"fmt"
	"net/http"

	"github.com/nacho-herrera/go-cocos/internal/domain"
)

// TransportError covers connectivity failures and request timeouts. These
// never carry a server verdict, so callers may retry them.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a structured non-2xx response from the broker. A 401 also
// matches domain.ErrSessionExpired through Unwrap.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	case e.Code != "":
		return fmt.Sprintf("api error %d: %s", e.Status, e.Code)
	default:
		return fmt.Sprintf("api error %d", e.Status)
	}
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return domain.ErrSessionExpired
	}
	return nil
}

// ProtocolError marks a response body that does not parse as JSON. It means
// the unofficial API changed shape, so it is always surfaced.
type ProtocolError struct {
	Status int
	Err    error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected response body (status %d): %v", e.Status, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
