package settings

import (
	"errors"
	"fmt"
	"strings"
)

// ConcurrentChangeMarker is the message a backend reports when the stored settings moved on since they were last read.
// Clients classify save failures by looking for this text, so it must survive any wrapping.
const ConcurrentChangeMarker = "settings changed since last reload"

var ErrConcurrentChange = errors.New(ConcurrentChangeMarker)

// IsConcurrentChange matches on the message rather than the error chain, as the error may have crossed the wire
func IsConcurrentChange(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), ConcurrentChangeMarker)
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}
