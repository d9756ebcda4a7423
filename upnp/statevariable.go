package upnp

import "strings"

// StateVariable describes one typed value declared in a service's SCPD
// serviceStateTable. Instances are built once while the description is
// parsed and never mutated afterwards, so they are safe to share between
// concurrent action invocations.
type StateVariable struct {
	name          string       // Name as declared in the SCPD (e.g. "Volume")
	dataType      string       // Raw dataType tag, kept for diagnostics
	varType       StateVarType // Parsed type, StateType_Unknown if unrecognized
	allowedValues []string
	sendEvents    bool
}

// NewStateVariable builds an immutable state variable definition. The raw
// dataType tag is kept even when it does not parse to a known type, so that
// validation can report it.
func NewStateVariable(name, dataType string, allowedValues []string, sendEvents bool) *StateVariable {
	sv := &StateVariable{
		name:       strings.TrimSpace(name),
		dataType:   strings.TrimSpace(dataType),
		varType:    ParseStateVarType(dataType),
		sendEvents: sendEvents,
	}
	if len(allowedValues) > 0 {
		sv.allowedValues = append([]string(nil), allowedValues...)
	}
	return sv
}

// Name returns the state variable's name (e.g., "Volume", "Brightness").
func (sv *StateVariable) Name() string {
	return sv.name
}

// DataType returns the raw dataType tag from the SCPD.
func (sv *StateVariable) DataType() string {
	return sv.dataType
}

// Type returns the parsed UPnP data type of the state variable.
func (sv *StateVariable) Type() StateVarType {
	return sv.varType
}

// HasAllowedValues indicates if an allowed value list is defined.
func (sv *StateVariable) HasAllowedValues() bool {
	return len(sv.allowedValues) > 0
}

// AllowedValues returns a copy of the permitted value list, empty when the
// variable is unconstrained.
func (sv *StateVariable) AllowedValues() []string {
	return append([]string(nil), sv.allowedValues...)
}

// IsValueAllowed checks if a value exists in the allowed value list.
// Always returns true if no allowed values are defined.
func (sv *StateVariable) IsValueAllowed(value string) bool {
	if !sv.HasAllowedValues() {
		return true
	}
	for _, allowed := range sv.allowedValues {
		if value == allowed {
			return true
		}
	}
	return false
}

// IsSendingEvents indicates if state changes trigger UPnP events.
// Informational only: the control point does not manage subscriptions
// beyond the header plumbing in Service.
func (sv *StateVariable) IsSendingEvents() bool {
	return sv.sendEvents
}
