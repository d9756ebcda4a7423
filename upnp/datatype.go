// Package upnp implements the control-point side of UPnP: typed state
// variables, argument validation and marshalling, and action invocation
// over SOAP. Device and service descriptions are read from the XML files
// advertised by the devices themselves.
package upnp

import "strings"

// StateVarType identifies a UPnP state variable type as declared in an
// SCPD <dataType> element.
type StateVarType int

// Constants defining all supported UPnP state variable types
const (
	StateType_Unknown    StateVarType = iota
	StateType_UI1                     // Unsigned 8-bit integer
	StateType_UI2                     // Unsigned 16-bit integer
	StateType_UI4                     // Unsigned 32-bit integer
	StateType_I1                      // Signed 8-bit integer
	StateType_I2                      // Signed 16-bit integer
	StateType_I4                      // Signed 32-bit integer
	StateType_Int                     // Synonymous with i4
	StateType_R4                      // 32-bit floating point
	StateType_R8                      // 64-bit floating point
	StateType_Number                  // Synonymous with r8
	StateType_Fixed14_4               // Fixed-point decimal
	StateType_Float                   // Synonymous with r8
	StateType_Char                    // Single Unicode character
	StateType_String                  // Character string
	StateType_Boolean                 // Boolean value
	StateType_BinBase64               // Base64-encoded binary
	StateType_BinHex                  // Hex-encoded binary
	StateType_Date                    // Date (YYYY-MM-DD)
	StateType_DateTime                // DateTime without timezone
	StateType_DateTimeTZ              // DateTime with timezone
	StateType_Time                    // Time without timezone
	StateType_TimeTZ                  // Time with timezone
	StateType_UUID                    // Universally unique identifier
	StateType_URI                     // Uniform Resource Identifier
)

// typeNames maps UPnP XML type names to StateVarType constants
var typeNames = map[string]StateVarType{
	"ui1":         StateType_UI1,
	"ui2":         StateType_UI2,
	"ui4":         StateType_UI4,
	"i1":          StateType_I1,
	"i2":          StateType_I2,
	"i4":          StateType_I4,
	"int":         StateType_Int,
	"r4":          StateType_R4,
	"r8":          StateType_R8,
	"number":      StateType_Number,
	"fixed.14.4":  StateType_Fixed14_4,
	"float":       StateType_Float,
	"char":        StateType_Char,
	"string":      StateType_String,
	"boolean":     StateType_Boolean,
	"bin.base64":  StateType_BinBase64,
	"bin.hex":     StateType_BinHex,
	"date":        StateType_Date,
	"dateTime":    StateType_DateTime,
	"dateTime.tz": StateType_DateTimeTZ,
	"time":        StateType_Time,
	"time.tz":     StateType_TimeTZ,
	"uuid":        StateType_UUID,
	"uri":         StateType_URI,
}

// typeStrings provides string representations for StateVarType constants
var typeStrings = [...]string{
	"unknown",
	"ui1",
	"ui2",
	"ui4",
	"i1",
	"i2",
	"i4",
	"int",
	"r4",
	"r8",
	"number",
	"fixed.14.4",
	"float",
	"char",
	"string",
	"boolean",
	"bin.base64",
	"bin.hex",
	"date",
	"dateTime",
	"dateTime.tz",
	"time",
	"time.tz",
	"uuid",
	"uri",
}

// String returns the UPnP name of the type. It defaults to "unknown" if the
// type is not recognized.
func (t StateVarType) String() string {
	if int(t) >= 0 && int(t) < len(typeStrings) {
		return typeStrings[t]
	}
	return "unknown"
}

// ParseStateVarType converts a UPnP type name to its StateVarType constant.
// The dataType tag is matched verbatim apart from surrounding whitespace:
// the UPnP type set is fixed by specification, so there is no runtime
// registration. Returns StateType_Unknown for unrecognized types.
func ParseStateVarType(s string) StateVarType {
	if val, ok := typeNames[strings.TrimSpace(s)]; ok {
		return val
	}
	return StateType_Unknown
}

// IsNumeric checks whether a given StateVarType represents a numeric type or
// not. Numeric types are defined as those that can be used to store
// number-like values: UI1, UI2, UI4, I1, I2, I4, Int, R4, R8, Number, Float
// and Fixed14_4.
func (t StateVarType) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat()
}

// IsInteger checks if the state variable type is integer or not.
func (t StateVarType) IsInteger() bool {
	switch t {
	case StateType_UI1, StateType_UI2, StateType_UI4,
		StateType_I1, StateType_I2, StateType_I4,
		StateType_Int:
		return true
	default:
		return false
	}
}

// IsUnsignedInt checks if the state variable type is one of the unsigned
// integer types.
func (t StateVarType) IsUnsignedInt() bool {
	switch t {
	case StateType_UI1, StateType_UI2, StateType_UI4:
		return true
	default:
		return false
	}
}

// IsFloat reports whether the type belongs to the floating/decimal family
// (r4, r8, number, float, fixed.14.4).
func (t StateVarType) IsFloat() bool {
	switch t {
	case StateType_R4, StateType_R8, StateType_Number,
		StateType_Float, StateType_Fixed14_4:
		return true
	default:
		return false
	}
}

// IsTemporal reports whether the type carries a date and/or time-of-day.
func (t StateVarType) IsTemporal() bool {
	switch t {
	case StateType_Date, StateType_DateTime, StateType_DateTimeTZ,
		StateType_Time, StateType_TimeTZ:
		return true
	default:
		return false
	}
}

// IsBinary checks if the state variable type is binary or not
// (bin.base64 or bin.hex).
func (t StateVarType) IsBinary() bool {
	switch t {
	case StateType_BinBase64, StateType_BinHex:
		return true
	default:
		return false
	}
}
