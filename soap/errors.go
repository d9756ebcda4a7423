package soap

import "fmt"

// Error is a well-formed UPnP error fault returned by a device. It is an
// expected application-level outcome: the caller decides how to handle
// specific codes (606-612 reserved, 613-699 common action errors, 700-799
// committee-specific, 800-899 vendor-specific).
type Error struct {
	Code        int
	Description string
}

func (e *Error) Error() string {
	return fmt.Sprintf("UPnP error %d: %s", e.Code, e.Description)
}

// ProtocolError reports a response that does not match the SOAP/UPnP shape
// we expect: no *Response element, or a fault without errorCode and
// errorDescription. It marks a malformed or non-conformant device, as
// opposed to a well-formed fault (Error) or a transport failure.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return e.Message
}
