// Package payload models the JSON documents exchanged with the host platform: the
// task's input parameters and the result payloads pushed back. Objects keep their
// key order so that what the host renders matches what the task produced.
package payload

import (
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	List
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case List:
		return "list"
	case Object:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a JSON value. The zero Value is JSON null.
type Value struct {
	kind Kind
	b    bool
	s    string // string value, or the literal text of a number
	list []Value
	obj  *Map
}

func NullValue() Value { return Value{} }

func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

func StringValue(s string) Value { return Value{kind: String, s: s} }

func IntValue(i int64) Value { return Value{kind: Number, s: strconv.FormatInt(i, 10)} }

// FloatValue stores f as a number. NaN and infinities are accepted here but fail to
// encode, since JSON has no representation for them.
func FloatValue(f float64) Value {
	return Value{kind: Number, s: strconv.FormatFloat(f, 'g', -1, 64)}
}

// NumberValue wraps the literal text of a JSON number without re-formatting it.
func NumberValue(literal string) Value { return Value{kind: Number, s: literal} }

func ListValue(items ...Value) Value {
	return Value{kind: List, list: append([]Value(nil), items...)}
}

// ObjectValue wraps m; a nil map becomes an empty object.
func ObjectValue(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: Object, obj: m}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == Null }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == Bool }

func (v Value) AsString() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.s, true
}

func (v Value) AsFloat() (float64, bool) {
	if v.kind != Number {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	return f, err == nil
}

// AsInt reports false for numbers that are not integers or do not fit in an int64.
func (v Value) AsInt() (int64, bool) {
	if v.kind != Number {
		return 0, false
	}
	i, err := strconv.ParseInt(v.s, 10, 64)
	return i, err == nil
}

// AsList returns the backing slice; callers must not modify it.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != List {
		return nil, false
	}
	return v.list, true
}

func (v Value) AsObject() (*Map, bool) {
	if v.kind != Object {
		return nil, false
	}
	return v.obj, true
}

// Text renders strings as-is and everything else as JSON. It is meant for log lines.
func (v Value) Text() string {
	if v.kind == String {
		return v.s
	}
	return v.String()
}

// String returns the JSON encoding of v.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "!(" + err.Error() + ")"
	}
	return string(b)
}
