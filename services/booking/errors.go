package booking

import "fmt"

// WorkflowError carries a machine-readable code alongside the user-facing
// message so callers can map failures without string matching.
type WorkflowError struct {
	Code    string
	Message string
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	CodeStaleSelection = "staleSelection"
	CodeSessionExpired = "sessionExpired"
	CodeExternal       = "externalCollaborator"
)

// NewStaleSelectionError flags a confirm() on a slot that was not part of the
// last offered set. The caller must re-resolve availability.
func NewStaleSelectionError(msg string) error {
	return &WorkflowError{Code: CodeStaleSelection, Message: msg}
}

// NewSessionExpiredError flags a confirm/cancel against an unknown or
// expired session.
func NewSessionExpiredError(msg string) error {
	return &WorkflowError{Code: CodeSessionExpired, Message: msg}
}
