package upnp

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// intRange holds the inclusive bounds of a UPnP integer type.
type intRange struct {
	min int64
	max int64
}

var intRanges = map[StateVarType]intRange{
	StateType_UI1: {0, 255},
	StateType_UI2: {0, 65535},
	StateType_UI4: {0, 4294967295},
	StateType_I1:  {-128, 127},
	StateType_I2:  {-32768, 32767},
	StateType_I4:  {-2147483648, 2147483647},
	StateType_Int: {-2147483648, 2147483647},
}

// IEEE-754 magnitude bounds, kept as decimals so the comparison itself
// cannot lose precision.
var (
	maxFloat32 = decimal.RequireFromString("3.40282347E+38")
	minPosF32  = decimal.RequireFromString("1.17549435E-38")
	maxFloat64 = decimal.RequireFromString("1.79769313486232E+308")
	minPosF64  = decimal.RequireFromString("4.94065645841247E-324")
)

var uuidRe = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

var booleanTokens = map[string]bool{
	"true": true, "yes": true, "1": true,
	"false": true, "no": true, "0": true,
}

// timeNow is swapped out by tests that exercise the time/time.tz day check.
var timeNow = time.Now

// Validate checks a wire-format string against the state variable's UPnP
// datatype and allowed-value list. It is a pure function: no side effects,
// identical inputs yield identical results. Data-shape problems never
// surface as errors; every violation is reported as a human-readable
// reason, and an empty reason list means the value is valid.
func Validate(value string, sv *StateVariable) (bool, []string) {
	reasons := validateValue(value, sv)
	return len(reasons) == 0, reasons
}

func validateValue(value string, sv *StateVariable) []string {
	t := sv.Type()

	if r, ok := intRanges[t]; ok {
		v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || v < r.min || v > r.max {
			return []string{fmt.Sprintf("'%s' datatype must be a number in the range %d to %d",
				sv.DataType(), r.min, r.max)}
		}
		return nil
	}

	switch t {
	case StateType_R4:
		return validateDecimal(value, sv.DataType(), minPosF32, maxFloat32)

	case StateType_R8, StateType_Number, StateType_Float, StateType_Fixed14_4:
		return validateDecimal(value, sv.DataType(), minPosF64, maxFloat64)

	case StateType_Char:
		if utf8.RuneCountInString(value) != 1 {
			return []string{fmt.Sprintf("'char' datatype must be a single character, got %q", value)}
		}

	case StateType_String:
		if !sv.IsValueAllowed(value) {
			return []string{fmt.Sprintf("Value %q not in allowed values list", value)}
		}

	case StateType_Date:
		if _, err := parseDateOnly(value); err != nil {
			if _, _, dtErr := parseDateTime(value); dtErr == nil {
				return []string{"'date' datatype must not contain a time"}
			}
			return []string{err.Error()}
		}

	case StateType_DateTime, StateType_DateTimeTZ:
		_, hasTZ, err := parseDateTime(value)
		if err != nil {
			return []string{err.Error()}
		}
		if t == StateType_DateTime && hasTZ {
			return []string{"'dateTime' datatype must not contain a timezone"}
		}

	case StateType_Time, StateType_TimeTZ:
		return validateClock(value, t, sv.DataType())

	case StateType_Boolean:
		if !booleanTokens[strings.ToLower(strings.TrimSpace(value))] {
			return []string{fmt.Sprintf("'%s' datatype must be one of 1,true,yes,0,false,no", sv.DataType())}
		}

	case StateType_BinBase64:
		if _, err := base64.StdEncoding.DecodeString(value); err != nil {
			return []string{err.Error()}
		}

	case StateType_BinHex:
		if _, err := hex.DecodeString(strings.TrimSpace(value)); err != nil {
			return []string{err.Error()}
		}

	case StateType_URI:
		// url.Parse is deliberately permissive; it almost never rejects.
		if _, err := url.Parse(value); err != nil {
			return []string{err.Error()}
		}

	case StateType_UUID:
		if !uuidRe.MatchString(strings.TrimSpace(value)) {
			return []string{fmt.Sprintf("'uuid' datatype must contain a valid UUID, got %q", value)}
		}

	default:
		return []string{fmt.Sprintf("'%s' datatype is unrecognised", sv.DataType())}
	}

	return nil
}

// validateDecimal checks the positive and negative branches around zero
// separately against the type's magnitude bounds. Zero itself is always in
// range.
func validateDecimal(value, tag string, minPos, maxMag decimal.Decimal) []string {
	v, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return []string{err.Error()}
	}
	if v.IsZero() {
		return nil
	}

	mag := v.Abs()
	if mag.Cmp(minPos) < 0 || mag.Cmp(maxMag) > 0 {
		return []string{fmt.Sprintf("'%s' datatype must be a number within the range %s to %s in magnitude",
			tag, minPos, maxMag)}
	}
	return nil
}

// validateClock validates the time and time.tz datatypes. A time-of-day is
// anchored to today: an offset that shifts the current instant onto another
// calendar day means the value no longer names a time of the current day.
func validateClock(value string, t StateVarType, tag string) []string {
	parsed, hasTZ, err := parseClock(value)
	if err != nil {
		return []string{err.Error()}
	}

	var reasons []string
	if hasTZ {
		_, offset := parsed.Zone()
		now := timeNow().UTC()
		if !sameCalendarDay(now, now.Add(time.Duration(offset)*time.Second)) {
			reasons = append(reasons, fmt.Sprintf("'%s' datatype must not contain a date", tag))
		}
		if t == StateType_Time {
			reasons = append(reasons, "'time' datatype must not have timezone information")
		}
	}
	return reasons
}
