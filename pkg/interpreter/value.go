package interpreter

import (
	"math"
	"strconv"
	"strings"
)

type ValueKind int

const (
	KindNull ValueKind = iota
	KindNumber
	KindString
	KindBool
	KindList
)

// String names the kind as it appears in error messages
func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// List is the shared backing of a list value. Every Value holding the same
// *List sees mutations made through any of them.
type List struct {
	Items []Value
}

// Value represents a dynamically-typed value in the interpreter. The zero
// Value is null.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
	Bool bool
	List *List
}

// NewNumber creates a number Value
func NewNumber(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// NewString creates a string Value
func NewString(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// NewBool creates a boolean Value
func NewBool(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// Null returns the null Value
func Null() Value {
	return Value{}
}

// NewList creates a list Value with a fresh backing holding items
func NewList(items ...Value) Value {
	backing := make([]Value, len(items))
	copy(backing, items)
	return Value{Kind: KindList, List: &List{Items: backing}}
}

// Len returns the number of items of a list value, 0 for anything else
func (v Value) Len() int {
	if v.Kind != KindList || v.List == nil {
		return 0
	}
	return len(v.List.Items)
}

// String renders the value the way print shows it
func (v Value) String() string {
	var sb strings.Builder
	writeValue(&sb, v, false, nil)
	return sb.String()
}

// Repr renders the value with strings quoted, as inside a list
func (v Value) Repr() string {
	var sb strings.Builder
	writeValue(&sb, v, true, nil)
	return sb.String()
}

// Equal compares structurally. Values of different kinds are never equal.
func (v Value) Equal(o Value) bool {
	return equal(v, o, nil)
}

// equal compares v and o. comparing holds the list pairs already under
// comparison; meeting one again means the lists are cyclic in the same
// place, and the pair counts as equal.
func equal(v, o Value, comparing map[[2]*List]bool) bool {
	if v.Kind != o.Kind {
		return false
	}

	switch v.Kind {
	case KindNull:
		return true
	case KindNumber:
		return v.Num == o.Num
	case KindString:
		return v.Str == o.Str
	case KindBool:
		return v.Bool == o.Bool
	case KindList:
		if v.List == o.List {
			return true
		}
		if len(v.List.Items) != len(o.List.Items) {
			return false
		}
		pair := [2]*List{v.List, o.List}
		if comparing[pair] {
			return true
		}
		if comparing == nil {
			comparing = make(map[[2]*List]bool)
		}
		comparing[pair] = true
		defer delete(comparing, pair)
		for idx := range v.List.Items {
			if !equal(v.List.Items[idx], o.List.Items[idx], comparing) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// writeValue formats v into sb. seen holds the lists currently being
// printed so a list containing itself prints as [...].
func writeValue(sb *strings.Builder, v Value, quote bool, seen map[*List]bool) {
	switch v.Kind {
	case KindNumber:
		sb.WriteString(formatNumber(v.Num))
	case KindString:
		if quote {
			sb.WriteString(strconv.Quote(v.Str))
		} else {
			sb.WriteString(v.Str)
		}
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.Bool))
	case KindList:
		if seen[v.List] {
			sb.WriteString("[...]")
			return
		}
		if seen == nil {
			seen = make(map[*List]bool)
		}
		seen[v.List] = true
		sb.WriteByte('[')
		for idx, item := range v.List.Items {
			if idx > 0 {
				sb.WriteString(", ")
			}
			writeValue(sb, item, true, seen)
		}
		sb.WriteByte(']')
		delete(seen, v.List)
	default:
		sb.WriteString("null")
	}
}

// formatNumber prints integral numbers with one decimal place (5.0) and
// everything else in shortest round-trip form
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == math.Trunc(f) && math.Abs(f) < 1e16:
		return strconv.FormatFloat(f, 'f', 1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
