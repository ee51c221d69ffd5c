package battle

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"time"
)

// TimestampLayout is the wire layout of dateTime: day.month.year hour:minute:second, UTC.
const TimestampLayout = "02.01.2006 15:04:05"

// Timestamp is a UTC instant carried as a TimestampLayout string.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s strictly; the canonical form must round-trip.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return Timestamp{}, err
	}
	if t.Format(TimestampLayout) != s {
		return Timestamp{}, &time.ParseError{Layout: TimestampLayout, Value: s, Message: ": not in canonical form"}
	}
	return Timestamp{Time: t}, nil
}

func (t Timestamp) String() string {
	return t.UTC().Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if bytes.HasPrefix(data, []byte(`"`)) && json.Unmarshal(data, &s) == nil {
		if parsed, err := ParseTimestamp(s); err == nil {
			*t = parsed
			return nil
		}
		return typeError("string "+strconv.Quote(s), t)
	}
	return typeError(describe(data), t)
}

// LenientBool accepts a JSON bool, an integer (zero is false), or a string
// holding "true", "false" or an integer. The producer emits all three for
// the same field.
type LenientBool bool

func (b *LenientBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return typeError("empty value", b)
	}
	switch c := data[0]; {
	case c == 't' || c == 'f':
		var v bool
		if err := json.Unmarshal(data, &v); err != nil {
			return typeError(describe(data), b)
		}
		*b = LenientBool(v)
		return nil
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return typeError(describe(data), b)
		}
		switch s {
		case "true":
			*b = true
			return nil
		case "false":
			*b = false
			return nil
		}
		v, ok := intFlag(s)
		if !ok {
			return typeError("string "+strconv.Quote(s), b)
		}
		*b = LenientBool(v)
		return nil
	case c == '-' || (c >= '0' && c <= '9'):
		v, ok := intFlag(string(data))
		if !ok {
			return typeError("number "+string(data), b)
		}
		*b = LenientBool(v)
		return nil
	default:
		return typeError(describe(data), b)
	}
}

func (b LenientBool) MarshalJSON() ([]byte, error) {
	return strconv.AppendBool(nil, bool(b)), nil
}

func intFlag(s string) (bool, bool) {
	if s == "" {
		return false, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n != 0, true
	}
	// Out of int64 range but still an integer literal: nonzero.
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return n != 0, true
	}
	return false, false
}

// typeError is returned by every codec so encoding/json fills in the field path.
func typeError(value string, target any) error {
	return &json.UnmarshalTypeError{Value: value, Type: reflect.TypeOf(target).Elem()}
}

func describe(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "empty value"
	}
	switch data[0] {
	case 'n':
		return "null"
	case 't', 'f':
		return "bool"
	case '"':
		return "string"
	case '[':
		return "array"
	case '{':
		return "object"
	default:
		return "number " + string(data)
	}
}
