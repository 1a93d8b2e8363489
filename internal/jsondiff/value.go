// Package jsondiff parses JSON into an order-preserving tagged value and
// computes a flat, path-addressed structural diff between two documents.
package jsondiff

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Kind is the JSON type of a Value, decided once at decode time.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

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
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is a parsed JSON value. The zero Value is null.
type Value struct {
	kind   Kind
	b      bool
	num    string
	str    string
	arr    []Value
	object *Object
}

// Member is one key/value entry of an object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object that remembers key insertion order.
type Object struct {
	members []Member
	index   map[string]int
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a JSON number from its literal text, e.g. "1.5".
func Number(literal string) Value { return Value{kind: KindNumber, num: literal} }

// String returns a JSON string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array returns a JSON array.
func Array(items ...Value) Value { return Value{kind: KindArray, arr: items} }

// ObjectOf returns a JSON object with members in the given order. A repeated
// key keeps its first position and takes the last value.
func ObjectOf(members ...Member) Value {
	o := &Object{index: make(map[string]int, len(members))}
	for _, m := range members {
		o.set(m.Key, m.Value)
	}
	return Value{kind: KindObject, object: o}
}

func (o *Object) set(key string, v Value) {
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	i, ok := o.index[key]
	if !ok {
		return Value{}, false
	}
	return o.members[i].Value, true
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Members returns the object's entries in insertion order.
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}
	return o.members
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Kind returns the JSON type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Object returns the object payload, or nil when v is not an object.
func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.object
}

// Items returns the array payload, or nil when v is not an array.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Equal reports deep value equality. Numbers compare by numeric value and
// object comparison ignores key order.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return numbersEqual(v.num, other.num)
	case KindString:
		return v.str == other.str
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.object.Len() != other.object.Len() {
			return false
		}
		for _, m := range v.object.Members() {
			ov, ok := other.object.Get(m.Key)
			if !ok || !m.Value.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

func numbersEqual(a, b string) bool {
	if a == b {
		return true
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA != nil || errB != nil {
		return false
	}
	return fa == fb
}

// MarshalJSON renders v compactly, keeping object key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// String renders v as compact JSON.
func (v Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<%s: %v>", v.kind, err)
	}
	return string(data)
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.num)
	case KindString:
		return encodeString(buf, v.str)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.object.Members() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("jsondiff: unknown kind %d", v.kind)
	}
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// UnmarshalJSON parses data into v, keeping object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Decode(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ErrEmptyDocument is returned by Decode for input with no JSON value.
var ErrEmptyDocument = errors.New("jsondiff: empty document")

// MaxDepth is the deepest array/object nesting Decode accepts, matching
// encoding/json's own limit.
const MaxDepth = 10000

// ErrMaxDepth is returned by Decode for documents nested deeper than MaxDepth.
var ErrMaxDepth = fmt.Errorf("exceeded max depth %d", MaxDepth)

// Decode parses a single JSON document. Trailing data after the document is
// rejected.
func Decode(data []byte) (Value, error) {
	return DecodeReader(bytes.NewReader(data))
}

// DecodeReader parses a single JSON document from r.
func DecodeReader(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, ErrEmptyDocument
		}
		return Value{}, fmt.Errorf("jsondiff: decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, fmt.Errorf("jsondiff: decode: unexpected data after document")
	}
	return v, nil
}

// depth counts the containers enclosing the value. Below the top level,
// running out of input means the document was truncated rather than empty.
func decodeValue(dec *json.Decoder, depth int) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, eofError(err, depth > 0)
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t.String()), nil
	case string:
		return String(t), nil
	case json.Delim:
		if depth >= MaxDepth {
			return Value{}, ErrMaxDepth
		}
		switch t {
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := decodeValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, eofError(err, true)
			}
			return Array(items...), nil
		case '{':
			o := &Object{index: make(map[string]int)}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, eofError(err, true)
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("object key is %T, not string", keyTok)
				}
				item, err := decodeValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				o.set(key, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, eofError(err, true)
			}
			return Value{kind: KindObject, object: o}, nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func eofError(err error, nested bool) error {
	if nested && errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
