package luatab

import "fmt"

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNumber Kind = iota
	KindString
	KindBoolean
	KindTable
	KindArray
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindTable:
		return "table"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Value is one node of a parsed table literal: Number, String, Boolean,
// *Table or *Array. The set is closed.
type Value interface {
	Kind() Kind
	value()
}

// Number is a numeric literal. The text format does not distinguish
// integers from floats.
type Number float64

// String is a string literal.
type String string

// Boolean is the literal true or false.
type Boolean bool

func (Number) Kind() Kind  { return KindNumber }
func (String) Kind() Kind  { return KindString }
func (Boolean) Kind() Kind { return KindBoolean }
func (*Table) Kind() Kind  { return KindTable }
func (*Array) Kind() Kind  { return KindArray }

func (Number) value()  {}
func (String) value()  {}
func (Boolean) value() {}
func (*Table) value()  {}
func (*Array) value()  {}

// Entry is one table entry. Key is empty for positional entries.
type Entry struct {
	Key   string
	Value Value
}

// Positional reports whether the entry has no key.
func (e Entry) Positional() bool {
	return e.Key == ""
}

// Table is a brace-delimited table holding keyed and positional entries in
// source order. Multiline is a rendering hint for Format.
type Table struct {
	entries   []Entry
	index     map[string]int
	Multiline bool
}

// NewTable creates a table from entries. A repeated key replaces the value
// of its first occurrence.
func NewTable(entries ...Entry) *Table {
	t := &Table{}
	for _, e := range entries {
		t.add(e)
	}
	return t
}

// Append adds a positional entry.
func (t *Table) Append(v Value) {
	t.entries = append(t.entries, Entry{Value: v})
}

// Set assigns a keyed entry, keeping its original position when the key
// already exists.
func (t *Table) Set(key string, v Value) {
	t.add(Entry{Key: key, Value: v})
}

func (t *Table) add(e Entry) {
	if e.Key == "" {
		t.entries = append(t.entries, e)
		return
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[e.Key]; ok {
		t.entries[i].Value = e.Value
		return
	}
	t.index[e.Key] = len(t.entries)
	t.entries = append(t.entries, e)
}

// Get returns the value stored under key.
func (t *Table) Get(key string) (Value, bool) {
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return t.entries[i].Value, true
}

// Has reports whether key is present.
func (t *Table) Has(key string) bool {
	_, ok := t.index[key]
	return ok
}

// Delete removes a keyed entry. It reports whether the key was present.
func (t *Table) Delete(key string) bool {
	i, ok := t.index[key]
	if !ok {
		return false
	}
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
	delete(t.index, key)
	for k, j := range t.index {
		if j > i {
			t.index[k] = j - 1
		}
	}
	return true
}

// Entries returns all entries in order. The slice must not be modified.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Keys returns the keys of keyed entries in order.
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.index))
	for _, e := range t.entries {
		if !e.Positional() {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Positional returns the positional entries in order.
func (t *Table) Positional() []Value {
	var out []Value
	for _, e := range t.entries {
		if e.Positional() {
			out = append(out, e.Value)
		}
	}
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Array is a table with positional entries only. Parse never produces one;
// encoders use it for plain lists.
type Array struct {
	Elems     []Value
	Multiline bool
}

// NewArray creates an inline array.
func NewArray(elems ...Value) *Array {
	return &Array{Elems: elems}
}

// Numbers creates an inline array of numbers.
func Numbers(ns ...float64) *Array {
	a := &Array{Elems: make([]Value, len(ns))}
	for i, n := range ns {
		a.Elems[i] = Number(n)
	}
	return a
}

// Elements returns the positional entries of a *Table or *Array. ok is false
// for scalars.
func Elements(v Value) (elems []Value, ok bool) {
	switch v := v.(type) {
	case *Array:
		return v.Elems, true
	case *Table:
		return v.Positional(), true
	default:
		return nil, false
	}
}
