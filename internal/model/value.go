package model

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind tags the dynamic type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	// KindRaw holds a JSON array or object kept verbatim.
	KindRaw
)

// Value is a single schemaless field of an article or request payload.
type Value struct {
	kind Kind
	b    bool
	s    string // number literal, string contents or raw JSON
}

func Null() Value { return Value{kind: KindNull} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func String(s string) Value { return Value{kind: KindString, s: s} }

func Int(n int) Value { return Value{kind: KindNumber, s: strconv.Itoa(n)} }

// Number wraps a JSON number literal as-is.
func Number(literal string) Value { return Value{kind: KindNumber, s: literal} }

// Raw wraps an encoded JSON array or object.
func Raw(encoded string) Value { return Value{kind: KindRaw, s: encoded} }

func fromResult(r gjson.Result) Value {
	switch r.Type {
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	case gjson.Number:
		return Number(r.Raw)
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		return Raw(r.Raw)
	default:
		return Null()
	}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// Text renders the value as plain text. Null becomes the empty string,
// strings are returned unquoted and everything else as its JSON form.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.s
	}
}

// Truth coerces the value to a boolean: booleans as they are, anything
// else is true only when its text is "true" in any letter case.
func (v Value) Truth() bool {
	if v.kind == KindBool {
		return v.b
	}

	return strings.EqualFold(v.Text(), "true")
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindNumber, KindRaw:
		return []byte(v.s), nil
	case KindString:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return ErrInvalidJSON
	}
	*v = fromResult(gjson.ParseBytes(data))

	return nil
}
