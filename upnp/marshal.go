package upnp

import (
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Marshal converts a wire-format string for the given UPnP datatype into a
// typed Go value:
//
//	ui1..ui4            -> uint8/uint16/uint32
//	i1..i4, int         -> int8/int16/int32
//	r4, r8, number,
//	float, fixed.14.4   -> decimal.Decimal (no binary-float precision loss)
//	char, string        -> string, unchanged
//	boolean             -> bool (same token set as validation)
//	bin.base64, bin.hex -> []byte
//	date                -> time.Time (calendar date, zero clock)
//	dateTime            -> time.Time (naive)
//	dateTime.tz         -> time.Time carrying the offset
//	time, time.tz       -> time.Time (clock only, offset kept for time.tz)
//	uri                 -> *url.URL
//	uuid                -> uuid.UUID
//
// The second return value reports whether marshalling succeeded. On failure,
// and for unrecognized datatypes, the raw string is handed back unchanged
// with ok=false.
func Marshal(dataType, value string) (interface{}, bool) {
	switch t := ParseStateVarType(dataType); t {
	case StateType_UI1, StateType_UI2, StateType_UI4:
		return marshalUint(t, value)

	case StateType_I1, StateType_I2, StateType_I4, StateType_Int:
		return marshalInt(t, value)

	case StateType_R4, StateType_R8, StateType_Number,
		StateType_Float, StateType_Fixed14_4:
		d, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return value, false
		}
		return d, true

	case StateType_Char, StateType_String:
		return value, true

	case StateType_Boolean:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes":
			return true, true
		case "0", "false", "no":
			return false, true
		}
		return value, false

	case StateType_BinBase64:
		data, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return value, false
		}
		return data, true

	case StateType_BinHex:
		data, err := hex.DecodeString(strings.TrimSpace(value))
		if err != nil {
			return value, false
		}
		return data, true

	case StateType_Date:
		ts, err := parseDateOnly(value)
		if err != nil {
			return value, false
		}
		return ts, true

	case StateType_DateTime, StateType_DateTimeTZ:
		ts, _, err := parseDateTime(value)
		if err != nil {
			return value, false
		}
		return ts, true

	case StateType_Time, StateType_TimeTZ:
		ts, _, err := parseClock(value)
		if err != nil {
			return value, false
		}
		return ts, true

	case StateType_URI:
		u, err := url.Parse(strings.TrimSpace(value))
		if err != nil {
			return value, false
		}
		return u, true

	case StateType_UUID:
		u, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil {
			return value, false
		}
		return u, true

	default:
		return value, false
	}
}

func marshalUint(t StateVarType, value string) (interface{}, bool) {
	bits := map[StateVarType]int{
		StateType_UI1: 8,
		StateType_UI2: 16,
		StateType_UI4: 32,
	}[t]

	v, err := strconv.ParseUint(strings.TrimSpace(value), 10, bits)
	if err != nil {
		return value, false
	}
	switch t {
	case StateType_UI1:
		return uint8(v), true
	case StateType_UI2:
		return uint16(v), true
	default:
		return uint32(v), true
	}
}

func marshalInt(t StateVarType, value string) (interface{}, bool) {
	bits := 32
	switch t {
	case StateType_I1:
		bits = 8
	case StateType_I2:
		bits = 16
	}

	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, bits)
	if err != nil {
		return value, false
	}
	switch t {
	case StateType_I1:
		return int8(v), true
	case StateType_I2:
		return int16(v), true
	default:
		return int32(v), true
	}
}
