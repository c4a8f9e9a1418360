// Package payload provides uniform read access to provider payloads.
//
// Providers hand back responses in several shapes: raw JSON from an SDK,
// decoded maps from a compatibility layer, or typed structs. Value wraps any
// of them behind one path-based accessor so callers read fields the same way
// regardless of origin.
package payload

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Value is a read-only view of one node of a payload.
// The zero value is a missing node.
type Value struct {
	r gjson.Result
}

// Of wraps v. Raw JSON ([]byte, json.RawMessage) is parsed as-is; a Go string
// becomes a JSON string node; any other value is encoded with encoding/json
// first, falling back to its fmt representation when it cannot be encoded.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case gjson.Result:
		return Value{r: x}
	case json.RawMessage:
		return parseBytes(x)
	case []byte:
		return parseBytes(x)
	case string:
		return fromString(x)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fromString(fmt.Sprint(v))
	}
	return parseBytes(data)
}

// Parse wraps a raw JSON document.
func Parse(raw string) Value {
	return Value{r: gjson.Parse(raw)}
}

func parseBytes(data []byte) Value {
	if len(data) == 0 {
		return Value{}
	}
	return Value{r: gjson.ParseBytes(data)}
}

func fromString(s string) Value {
	data, _ := json.Marshal(s)
	return Value{r: gjson.ParseBytes(data)}
}

// Get returns the node at a gjson path such as "choices.0.message.content".
func (v Value) Get(path string) Value {
	return Value{r: v.r.Get(path)}
}

// Exists reports whether the node is present (null counts as present).
func (v Value) Exists() bool { return v.r.Exists() }

// IsNull reports whether the node is missing or JSON null.
func (v Value) IsNull() bool { return v.r.Type == gjson.Null }

// IsString reports whether the node is a JSON string.
func (v Value) IsString() bool { return v.r.Type == gjson.String }

// IsArray reports whether the node is a JSON array.
func (v Value) IsArray() bool { return v.r.IsArray() }

// IsObject reports whether the node is a JSON object.
func (v Value) IsObject() bool { return v.r.IsObject() }

// IsEmptyObject reports whether the node is an object without keys.
func (v Value) IsEmptyObject() bool {
	if !v.r.IsObject() {
		return false
	}
	empty := true
	v.r.ForEach(func(_, _ gjson.Result) bool {
		empty = false
		return false
	})
	return empty
}

// Str returns the node's string value when it is a JSON string, else "".
func (v Value) Str() string {
	if v.r.Type != gjson.String {
		return ""
	}
	return v.r.Str
}

// String returns a string form of any node: strings unquoted, numbers and
// booleans as literals, arrays and objects as raw JSON, null or missing as "".
func (v Value) String() string { return v.r.String() }

// Int returns the node as an integer, or 0.
func (v Value) Int() int { return int(v.r.Int()) }

// Raw returns the raw JSON text of the node.
func (v Value) Raw() string { return v.r.Raw }

// Array returns the elements of an array node. A non-array node yields
// itself as a single element unless it is missing or null.
func (v Value) Array() []Value {
	items := v.r.Array()
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = Value{r: item}
	}
	return out
}

// Interface returns the decoded Go value of the node.
func (v Value) Interface() any { return v.r.Value() }
