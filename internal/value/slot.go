package value

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Slot holds exactly one value of some originating type.
//
// Copying a Slot struct duplicates its ownership; use Assign for a deep copy
// and Take to transfer ownership.
type Slot struct {
	own  Ownership
	size uintptr
	w    *Witness

	// word holds Embedded scalars, encoded per kind by encodeWord.
	word uint64

	// ref holds Embedded pointers, the addressable target of Borrowed values
	// and the storage of Owned values.
	ref reflect.Value

	lit string

	released bool
}

// New boxes v. Word-sized numbers, bools and pointers are embedded; anything
// else is moved into owned storage. A Slot argument is deep-copied.
func New(v any) *Slot {
	s := Of(v)
	return &s
}

// Of is New returning the Slot by value, for callers that lay Slots out in a
// single block.
func Of(v any) Slot {
	switch sv := v.(type) {
	case *Slot:
		var s Slot
		s.Assign(sv)
		return s
	case Slot:
		var s Slot
		s.Assign(&sv)
		return s
	}
	return fromReflect(reflect.ValueOf(v))
}

// Borrow boxes the variable p points to without copying it. Later writes to
// the variable are visible through the Slot, and the variable must outlive it.
// Word-sized scalars are still embedded, matching New. A nil p yields a nil Slot.
func Borrow[T any](p *T) *Slot {
	if p == nil {
		return New(nil)
	}
	rv := reflect.ValueOf(p).Elem()
	if rv.Kind() == reflect.Interface {
		s := fromReflect(rv)
		return &s
	}
	w := WitnessOf(rv.Type())
	if w.embeddable() {
		s := fromReflect(rv)
		return &s
	}
	return &Slot{own: Borrowed, size: rv.Type().Size(), w: w, ref: rv}
}

// Literal boxes a fixed character sequence. The declared length may include
// a trailing NUL terminator, which text conversions drop.
func Literal(s string) *Slot {
	return &Slot{own: LiteralSpan, size: uintptr(len(s)), w: WitnessOf(stringType), lit: s}
}

func fromReflect(rv reflect.Value) Slot {
	if rv.IsValid() && rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return Slot{own: Embedded, w: nilWitness}
	}
	w := WitnessOf(rv.Type())
	s := Slot{size: rv.Type().Size(), w: w}
	if w.embeddable() {
		s.own = Embedded
		switch rv.Kind() {
		case reflect.Pointer, reflect.UnsafePointer:
			s.ref = rv
		default:
			s.word = encodeWord(rv)
		}
		return s
	}
	s.own = Owned
	s.ref = w.Copy(rv)
	return s
}

func encodeWord(rv reflect.Value) uint64 {
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return 1
		}
		return 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(rv.Int())
	case reflect.Float32:
		return uint64(math.Float32bits(float32(rv.Float())))
	case reflect.Float64:
		return math.Float64bits(rv.Float())
	default:
		return rv.Uint()
	}
}

func decodeWord(t reflect.Type, word uint64) reflect.Value {
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Bool:
		out.SetBool(word != 0)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out.SetInt(int64(word))
	case reflect.Float32:
		out.SetFloat(float64(math.Float32frombits(uint32(word))))
	case reflect.Float64:
		out.SetFloat(math.Float64frombits(word))
	default:
		out.SetUint(word)
	}
	return out
}

// raw reconstructs the held value. Borrowed values come back addressable.
func (s *Slot) raw() reflect.Value {
	switch s.own {
	case LiteralSpan:
		return reflect.ValueOf(s.lit)
	case Embedded:
		if s.w == nilWitness || s.w == nil {
			return reflect.Value{}
		}
		if s.ref.IsValid() {
			return s.ref
		}
		return decodeWord(s.w.typ, s.word)
	default:
		return s.ref
	}
}

// Ownership reports how the value is held.
func (s *Slot) Ownership() Ownership { return s.own }

// Size is the byte size of the original representation, or the declared
// length of a literal.
func (s *Slot) Size() uintptr { return s.size }

// Witness returns the originating type's witness.
func (s *Slot) Witness() *Witness {
	if s.w == nil {
		return nilWitness
	}
	return s.w
}

// TypeName is the originating type's name.
func (s *Slot) TypeName() string { return s.Witness().Name() }

// IsNil reports whether the Slot holds untyped nil.
func (s *Slot) IsNil() bool { return s.Witness() == nilWitness }

// Released reports whether Release has run.
func (s *Slot) Released() bool { return s.released }

// Interface returns the held value as-is.
func (s *Slot) Interface() any {
	v := s.raw()
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

// Assign deep-copies src into s, the copy-assignment of a Slot. Any storage s
// owned is released first. Owned data is copied through the witness; other
// holdings are copied shallowly and keep their ownership tag.
func (s *Slot) Assign(src *Slot) {
	if s == src {
		return
	}
	s.drop()
	*s = *src
	s.released = false
	if src.own == Owned {
		s.ref = src.Witness().Copy(src.ref)
	}
}

// Take moves src into s. If src owned its value it is demoted to Borrowed: it
// stays readable but no longer owns, so the storage is released only once.
func (s *Slot) Take(src *Slot) {
	if s == src {
		return
	}
	s.drop()
	*s = *src
	s.released = false
	if src.own == Owned {
		src.own = Borrowed
	}
}

// Release destroys the Slot. Owned storage is dropped through the witness.
// It reports false if the Slot was already released.
func (s *Slot) Release() bool {
	if s.released {
		return false
	}
	s.drop()
	s.released = true
	return true
}

func (s *Slot) drop() {
	if s.own == Owned && s.ref.IsValid() {
		s.Witness().Destroy(&s.ref)
	}
}

// String describes the Slot for diagnostics, e.g. "int(embedded)".
func (s *Slot) String() string {
	return fmt.Sprintf("%s(%s)", s.TypeName(), s.own)
}

// text returns the content of text-like sources: literals, string kinds,
// text marshalers, byte buffers and Char. Byte buffers stop at the first NUL.
func (s *Slot) text() (string, bool) {
	if s.own == LiteralSpan {
		return strings.TrimSuffix(s.lit, "\x00"), true
	}
	v := s.raw()
	if !v.IsValid() {
		return "", false
	}
	t := v.Type()
	switch {
	case t.Kind() == reflect.String:
		return v.String(), true
	case t == charType:
		return string([]byte{byte(v.Uint())}), true
	case t.Implements(textMarshalerType) && v.CanInterface():
		b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", false
		}
		return string(b), true
	}
	if b, ok := byteBuffer(v); ok {
		return b, true
	}
	return "", false
}

// byteBuffer reads []byte-like slices and [N]byte arrays up to the first NUL.
func byteBuffer(v reflect.Value) (string, bool) {
	t := v.Type()
	if (t.Kind() != reflect.Slice && t.Kind() != reflect.Array) || t.Elem().Kind() != reflect.Uint8 {
		return "", false
	}
	b := make([]byte, v.Len())
	for i := range b {
		b[i] = byte(v.Index(i).Uint())
	}
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		b = b[:i]
	}
	return string(b), true
}
