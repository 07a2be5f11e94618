// Package shape translates flat form state into the nested payloads the
// backend write endpoints expect.
package shape

import "fmt"

// ValidationError means a payload could not be built. No request should be
// sent when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

const (
	ReasonPatientMissing = "Patient data missing."
	ReasonInvalidID      = "not a valid identifier"
	ReasonUnknownRole    = "unknown role"
	ReasonAdminReadOnly  = "admins cannot be created or edited here"
)
