package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Graph-level sentinel errors.
var (
	ErrNodeNotFound    = errors.New("node not found")
	ErrDuplicateNode   = errors.New("duplicate node id")
	ErrEmptyNodeID     = errors.New("empty node id")
	ErrUnknownNodeKind = errors.New("unknown node kind")
	ErrSelfLoop        = errors.New("self-loop rejected")

	// ErrNodeBusy is returned when a run is triggered for a node that is
	// still dispatching a previous run.
	ErrNodeBusy = errors.New("node execution already in progress")

	// ErrCredentialNotFound is returned by credential providers when no
	// secret is stored for the requested provider.
	ErrCredentialNotFound = errors.New("credential not found")
)

// ExecErrorKind categorizes a node execution failure. Every failure is
// surfaced as node-local state; it never escapes to the graph or canvas
// level.
type ExecErrorKind string

const (
	// ErrConfiguration: required credential absent, reported before any
	// network attempt.
	ErrConfiguration ExecErrorKind = "configuration"
	// ErrValidation: required input empty after aggregation, reported before
	// any network attempt.
	ErrValidation ExecErrorKind = "validation"
	// ErrAuth: the remote rejected the credential.
	ErrAuth ExecErrorKind = "auth"
	// ErrQuota: the remote reports billing/quota exhaustion.
	ErrQuota ExecErrorKind = "quota"
	// ErrPolicy: the remote rejected the content on safety grounds.
	ErrPolicy ExecErrorKind = "policy"
	// ErrConnectivity: transport-level failure.
	ErrConnectivity ExecErrorKind = "connectivity"
	// ErrRemote: any other non-success remote response.
	ErrRemote ExecErrorKind = "remote"
	// ErrTimeout: async polling exceeded its attempt budget.
	ErrTimeout ExecErrorKind = "timeout"
)

// ExecError is the failure outcome of one node execution. Suggestions carry
// any remediation hints the remote provided (policy rejections include them).
type ExecError struct {
	Kind        ExecErrorKind
	Message     string
	Suggestions []string
	Err         error
}

func (e *ExecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Is lets errors.Is match two ExecErrors by kind.
func (e *ExecError) Is(target error) bool {
	var t *ExecError
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// NewExecError builds a categorized execution error.
func NewExecError(kind ExecErrorKind, message string, err error) *ExecError {
	return &ExecError{Kind: kind, Message: message, Err: err}
}

var displayHeaders = map[ExecErrorKind]string{
	ErrConfiguration: "Configuration Error",
	ErrValidation:    "Missing Input",
	ErrAuth:          "Authentication Error",
	ErrQuota:         "Quota Exceeded",
	ErrPolicy:        "Safety System Rejection",
	ErrConnectivity:  "Connection Error",
	ErrRemote:        "Request Error",
	ErrTimeout:       "Timed Out",
}

// DisplayMessage renders the user-facing text written into the failing
// node's display value.
func (e *ExecError) DisplayMessage() string {
	header, ok := displayHeaders[e.Kind]
	if !ok {
		header = "Error"
	}
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(e.Message)
	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for i, s := range e.Suggestions {
			fmt.Fprintf(&b, "\n%d. %s", i+1, s)
		}
	}
	return b.String()
}

// AsExecError extracts an ExecError from err, wrapping unknown errors as
// ErrRemote so every failure ends up categorized.
func AsExecError(err error) *ExecError {
	var e *ExecError
	if errors.As(err, &e) {
		return e
	}
	return NewExecError(ErrRemote, err.Error(), err)
}
