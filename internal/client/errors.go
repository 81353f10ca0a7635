package client

import (
	"fmt"
	"net/http"

	"github.com/hammamikhairi/railroad/internal/domain"
)

// TransportError means the lesson service could not be reached or its
// answer could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: could not reach the lesson service: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ApplicationError is a refusal reported by the lesson service itself.
type ApplicationError struct {
	Op      string
	Status  int
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: lesson service answered %d", e.Op, e.Status)
	}
	return e.Message
}

// Unwrap maps well-known refusals onto domain sentinels.
func (e *ApplicationError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return domain.ErrInvalidCredentials
	}
	return nil
}
