package upnp

import (
	"fmt"
	"sort"
	"strings"
)

// InvalidActionError is returned when an action name cannot be resolved on
// a device or service.
type InvalidActionError struct {
	Name string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("action with name %q does not exist", e.Name)
}

// MissingArgumentError is returned when a declared input argument was not
// supplied. It aborts the call before any network I/O happens.
type MissingArgumentError struct {
	Action   string
	Argument string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s: missing required param %q", e.Action, e.Argument)
}

// ValidationError aggregates every violation found across all supplied
// input arguments, keyed by argument name. Validation is never fail-fast:
// the caller sees all problems at once.
type ValidationError struct {
	Reasons map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Reasons))
	for name := range e.Reasons {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Reasons[name], "; ")))
	}
	return "invalid argument(s): " + strings.Join(parts, " / ")
}

// UnexpectedResponseError is returned when a device replies to a
// subscription request without the headers the UPnP eventing profile
// requires.
type UnexpectedResponseError struct {
	Message string
}

func (e *UnexpectedResponseError) Error() string {
	return e.Message
}
