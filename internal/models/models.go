package models

import (
	"bytes"
	"encoding/json"
	"iter"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies which variant of the JSON sum type a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the JSON name of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a parsed JSON value. The implementations are Null, Bool, Number,
// String, Array and *Object; no other type satisfies the interface.
type Value interface {
	Kind() Kind
	isValue()
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number kept as the numeral text found in the source, so
// rendering it never adds or drops digits.
type Number string

// String is a JSON string with escapes already resolved.
type String string

// Array is a JSON array.
type Array []Value

// Object is a JSON object whose keys keep document order.
type Object struct {
	fields *orderedmap.OrderedMap[string, Value]
}

func (Null) Kind() Kind    { return KindNull }
func (Bool) Kind() Kind    { return KindBool }
func (Number) Kind() Kind  { return KindNumber }
func (String) Kind() Kind  { return KindString }
func (Array) Kind() Kind   { return KindArray }
func (*Object) Kind() Kind { return KindObject }

func (Null) isValue()    {}
func (Bool) isValue()    {}
func (Number) isValue()  {}
func (String) isValue()  {}
func (Array) isValue()   {}
func (*Object) isValue() {}

// MarshalJSON renders null
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalJSON renders the numeral unchanged
func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("0"), nil
	}
	return []byte(n), nil
}

// MarshalJSON renders the array; a nil array is rendered as [] rather than null
func (a Array) MarshalJSON() ([]byte, error) {
	return AppendJSON(nil, a), nil
}

// NewObject creates an empty object
func NewObject() *Object {
	return &Object{fields: orderedmap.New[string, Value]()}
}

// Set stores value under key. A key that is already present keeps its
// position and takes the new value.
func (o *Object) Set(key string, value Value) {
	if o.fields == nil {
		o.fields = orderedmap.New[string, Value]()
	}
	o.fields.Set(key, value)
}

// Get returns the value stored under key
func (o *Object) Get(key string) (Value, bool) {
	if o == nil || o.fields == nil {
		return nil, false
	}
	return o.fields.Get(key)
}

// Len returns the number of keys
func (o *Object) Len() int {
	if o == nil || o.fields == nil {
		return 0
	}
	return o.fields.Len()
}

// Keys returns the keys in document order
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	for key := range o.All() {
		keys = append(keys, key)
	}
	return keys
}

// All iterates over key/value pairs in document order
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil || o.fields == nil {
			return
		}
		for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// MarshalJSON renders the object as compact JSON with keys in document order
func (o *Object) MarshalJSON() ([]byte, error) {
	return AppendJSON(nil, o), nil
}

// AppendJSON appends v to dst as compact JSON. Object keys keep document
// order and <, > and & are written as is, unlike json.Marshal.
func AppendJSON(dst []byte, v Value) []byte {
	switch v := v.(type) {
	case Bool:
		return strconv.AppendBool(dst, bool(v))
	case Number:
		if v == "" {
			return append(dst, '0')
		}
		return append(dst, string(v)...)
	case String:
		return appendString(dst, string(v))
	case Array:
		dst = append(dst, '[')
		for i, element := range v {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = AppendJSON(dst, element)
		}
		return append(dst, ']')
	case *Object:
		dst = append(dst, '{')
		first := true
		for key, value := range v.All() {
			if !first {
				dst = append(dst, ',')
			}
			first = false
			dst = appendString(dst, key)
			dst = append(dst, ':')
			dst = AppendJSON(dst, value)
		}
		return append(dst, '}')
	default:
		return append(dst, "null"...)
	}
}

func appendString(dst []byte, s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail
	_ = enc.Encode(s)
	return append(dst, bytes.TrimSuffix(buf.Bytes(), []byte("\n"))...)
}

// Match is one occurrence of a needle key found while walking a document.
type Match struct {
	// Needle is the key that matched
	Needle string
	// Path locates the key, e.g. $.user.activities[2].type
	Path string
	// Value is the value attached to the key
	Value Value
}

// Cell is a single column value within a row
type Cell struct {
	Column string
	Value  string
}

// Row is an ordered mapping from column name to cell text. A column that does
// not appear in the row is absent and renders as an empty cell.
type Row []Cell

// Get returns the cell text for column
func (r Row) Get(column string) (string, bool) {
	for _, cell := range r {
		if cell.Column == column {
			return cell.Value, true
		}
	}
	return "", false
}

// Columns returns the row's column names in order
func (r Row) Columns() []string {
	columns := make([]string, len(r))
	for i, cell := range r {
		columns[i] = cell.Column
	}
	return columns
}

// Project aligns the row to columns. Absent columns become empty strings and
// cells for columns not listed are dropped.
func (r Row) Project(columns []string) []string {
	values := make([]string, len(columns))
	for i, column := range columns {
		values[i], _ = r.Get(column)
	}
	return values
}

// Table is the flattened result for one needle
type Table struct {
	Needle  string
	Columns []string
	Rows    []Row
}

// Empty reports whether the table renders to nothing
func (t Table) Empty() bool {
	return len(t.Columns) == 0
}
