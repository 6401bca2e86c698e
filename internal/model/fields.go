package model

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Fields is an insertion-ordered mapping of field name to Value. The zero
// value is an empty set of fields ready to use.
type Fields struct {
	keys   []string
	values map[string]Value
}

func (f *Fields) Get(key string) (Value, bool) {
	v, ok := f.values[key]

	return v, ok
}

func (f *Fields) Has(key string) bool {
	_, ok := f.values[key]

	return ok
}

// Set stores v under key. An existing key keeps its position.
func (f *Fields) Set(key string, v Value) {
	if f.values == nil {
		f.values = make(map[string]Value)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = v
}

// SetIfAbsent stores v only when key is missing and reports whether it did.
func (f *Fields) SetIfAbsent(key string, v Value) bool {
	if f.Has(key) {
		return false
	}
	f.Set(key, v)

	return true
}

// SetDefault stores v when key is missing or holds null and reports
// whether it did.
func (f *Fields) SetDefault(key string, v Value) bool {
	if cur, ok := f.Get(key); ok && !cur.IsNull() {
		return false
	}
	f.Set(key, v)

	return true
}

// Text returns the text of key, or "" when it is missing.
func (f *Fields) Text(key string) string {
	v, _ := f.Get(key)

	return v.Text()
}

func (f *Fields) Keys() []string {
	keys := make([]string, len(f.keys))
	copy(keys, f.keys)

	return keys
}

func (f *Fields) Len() int { return len(f.keys) }

func (f *Fields) clone() Fields {
	c := Fields{
		keys:   make([]string, len(f.keys)),
		values: make(map[string]Value, len(f.values)),
	}
	copy(c.keys, f.keys)
	for k, v := range f.values {
		c.values[k] = v
	}

	return c
}

// pathEscaper turns a member name into a literal sjson path. The leading
// colon keeps numeric names from being read as array indexes.
var pathEscaper = strings.NewReplacer(
	`\`, `\\`, ".", `\.`, "|", `\|`, "#", `\#`,
	"@", `\@`, "*", `\*`, "?", `\?`,
)

func (f Fields) MarshalJSON() ([]byte, error) {
	out := []byte("{}")
	for _, k := range f.keys {
		val, err := f.values[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		if out, err = sjson.SetRawBytes(out, ":"+pathEscaper.Replace(k), val); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// UnmarshalJSON accepts a JSON object only and keeps its member order.
// Duplicate members keep the first position and the last value. A JSON
// null leaves f untouched.
func (f *Fields) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return ErrInvalidJSON
	}
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		return nil
	}
	if !res.IsObject() {
		return ErrNotObject
	}

	*f = Fields{}
	res.ForEach(func(key, value gjson.Result) bool {
		f.Set(key.String(), fromResult(value))

		return true
	})

	return nil
}
