package forms

import "fmt"

// RejectionError is a failed submission reported by the backend. FieldErrors
// maps field names to the messages to show inline; when it is empty, Message
// (or a generic fallback) is surfaced as a notification instead.
type RejectionError struct {
	FieldErrors map[string][]string
	Message     string
}

func (e *RejectionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("submission rejected with errors on %d field(s)", len(e.FieldErrors))
}
