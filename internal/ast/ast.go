package ast

import (
	"bytes"
	"strconv"

	json "github.com/goccy/go-json"
)

// Value is a single JSON value. It is a closed sum: the only implementations
// are the types in this package. A Value tree is exclusively owned by its
// root; parsing never aliases subtrees.
type Value interface {
	isValue()
}

// Null is the JSON literal null.
type Null struct{}

// Undefined is the literal undefined, accepted by the extended grammar
// variant. It is not part of standard JSON and re-encodes as null.
type Undefined struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number. Comparisons are raw float64 equality, which keeps
// test comparisons deterministic but is not NaN-safe.
type Number float64

// String is a JSON string with all escapes already decoded.
type String string

// Array is an ordered sequence of values.
type Array []Value

// Member is a single name/value pair of an object.
type Member struct {
	Name  string
	Value Value
}

// Object is an ordered sequence of members. Duplicate names are preserved as
// separate entries in source order; nothing is deduplicated or sorted.
type Object []Member

func (Null) isValue()      {}
func (Undefined) isValue() {}
func (Bool) isValue()      {}
func (Number) isValue()    {}
func (String) isValue()    {}
func (Array) isValue()     {}
func (Object) isValue()    {}

// MarshalJSON implements json.Marshaler.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalJSON implements json.Marshaler. undefined has no JSON spelling, so
// it degrades to null on output.
func (Undefined) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalJSON implements json.Marshaler.
func (b Bool) MarshalJSON() ([]byte, error) {
	return strconv.AppendBool(nil, bool(b)), nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(n))
}

// MarshalJSON implements json.Marshaler.
func (s String) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// MarshalJSON implements json.Marshaler.
func (a Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(out)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler. Members are written in stored
// order, duplicates included, so re-encoding mirrors the source layout.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(m.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		out, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(out)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
