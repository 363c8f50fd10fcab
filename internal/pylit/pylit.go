// Package pylit implements the small subset of Python literal notation
// used by the .npy header's descriptive record: dicts, tuples, strings,
// booleans, and integers.
//
// The package is deliberately narrow. It is not a general Python parser;
// it exists so the header codec can round-trip records such as
//
//	{'descr': '<f8', 'fortran_order': False, 'shape': (3, 4)}
//
// without pulling in a language runtime.
package pylit

import (
	"fmt"
	"strings"
)

// Kind identifies the concrete type held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindTuple
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindTuple:
		return "tuple"
	case KindDict:
		return "dict"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DictEntry is a single key/value pair of a dict literal. Entry order is
// preserved, matching Python source order.
type DictEntry struct {
	Key   Value
	Value Value
}

// Value is an immutable Python literal value.
type Value struct {
	kind    Kind
	str     string
	boolean bool
	integer int64
	items   []Value
	entries []DictEntry
}

// String constructs a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool constructs a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Int constructs an integer value.
func Int(i int64) Value { return Value{kind: KindInt, integer: i} }

// Tuple constructs a tuple value from the given items.
func Tuple(items ...Value) Value { return Value{kind: KindTuple, items: items} }

// Dict constructs a dict value from the given entries.
func Dict(entries ...DictEntry) Value { return Value{kind: KindDict, entries: entries} }

// Kind reports the concrete type of the value.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the string payload, if the value is a string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsBool returns the boolean payload, if the value is a bool.
func (v Value) AsBool() (bool, bool) {
	return v.boolean, v.kind == KindBool
}

// AsInt returns the integer payload, if the value is an integer.
func (v Value) AsInt() (int64, bool) {
	return v.integer, v.kind == KindInt
}

// AsTuple returns the tuple items, if the value is a tuple.
func (v Value) AsTuple() ([]Value, bool) {
	if v.kind != KindTuple {
		return nil, false
	}
	return v.items, true
}

// AsDict returns the dict entries, if the value is a dict.
func (v Value) AsDict() ([]DictEntry, bool) {
	if v.kind != KindDict {
		return nil, false
	}
	return v.entries, true
}

// Equal reports deep equality of two values, including tuple and dict
// ordering.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindBool:
		return v.boolean == other.boolean
	case KindInt:
		return v.integer == other.integer
	case KindTuple:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if len(v.entries) != len(other.entries) {
			return false
		}
		for i := range v.entries {
			if !v.entries[i].Key.Equal(other.entries[i].Key) {
				return false
			}
			if !v.entries[i].Value.Equal(other.entries[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the value as a Python literal. It is equivalent to
// Format and exists so values read well in error messages.
func (v Value) String() string {
	var sb strings.Builder
	v.format(&sb)
	return sb.String()
}
