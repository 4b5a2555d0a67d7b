package forge

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested repository or branch does not exist.
var ErrNotFound = errors.New("forge: not found")

// APIError carries the HTTP status of a failed forge API call.
type APIError struct {
	Status     string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("forge API error: %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("forge API error: %s", e.Status)
}

// IsNotFound reports whether err indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
