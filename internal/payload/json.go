package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// DecodeError reports JSON text that could not be turned into the expected value.
type DecodeError struct {
	Input string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode json payload: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var errNotObject = errors.New("top-level value is not a JSON object")

// Decode parses text into a Value, keeping object key order.
func Decode(text string) (Value, error) {
	if !gjson.Valid(text) {
		return Value{}, &DecodeError{Input: text, Err: syntaxCause(text)}
	}
	return fromResult(gjson.Parse(text)), nil
}

// DecodeObject parses text that must hold a JSON object.
func DecodeObject(text string) (*Map, error) {
	v, err := Decode(text)
	if err != nil {
		return nil, err
	}
	m, ok := v.AsObject()
	if !ok {
		return nil, &DecodeError{Input: text, Err: fmt.Errorf("%w (got %s)", errNotObject, v.Kind())}
	}
	return m, nil
}

// syntaxCause asks encoding/json for a positioned error message; gjson only says
// whether the text is valid.
func syntaxCause(text string) error {
	var raw json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return err
	}
	return errors.New("invalid json")
}

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return NullValue()
	case gjson.False:
		return BoolValue(false)
	case gjson.True:
		return BoolValue(true)
	case gjson.Number:
		return NumberValue(r.Raw)
	case gjson.String:
		return StringValue(r.Str)
	}
	if r.IsArray() {
		items := make([]Value, 0)
		r.ForEach(func(_, item gjson.Result) bool {
			items = append(items, fromResult(item))
			return true
		})
		return Value{kind: List, list: items}
	}
	m := NewMap()
	r.ForEach(func(key, item gjson.Result) bool {
		m.Set(key.Str, fromResult(item))
		return true
	})
	return ObjectValue(m)
}

// MarshalJSON writes compact JSON. Non-ASCII text is written as UTF-8 and HTML
// characters are not escaped, so the host sees the strings exactly as produced.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Decode(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeMap(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (m *Map) UnmarshalJSON(data []byte) error {
	parsed, err := DecodeObject(string(data))
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case Null:
		buf.WriteString("null")
	case Bool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		if !isNumberLiteral(v.s) {
			return fmt.Errorf("payload: %q is not a valid JSON number", v.s)
		}
		buf.WriteString(v.s)
	case String:
		writeString(buf, v.s)
	case List:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		return writeMap(buf, v.obj)
	default:
		return fmt.Errorf("payload: unknown value kind %d", v.kind)
	}
	return nil
}

func writeMap(buf *bytes.Buffer, m *Map) error {
	buf.WriteByte('{')
	var err error
	first := true
	m.Range(func(key string, v Value) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		writeString(buf, key)
		buf.WriteByte(':')
		err = writeValue(buf, v)
		return err == nil
	})
	if err != nil {
		return err
	}
	buf.WriteByte('}')
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	// Encode terminates with a newline.
	buf.Truncate(buf.Len() - 1)
}

func isNumberLiteral(s string) bool {
	if s == "" {
		return false
	}
	if c := s[0]; c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid([]byte(s))
}
