package value

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"

	"github.com/roach88/kwargs/internal/kwerr"
)

// ErrReleased is wrapped by conversion errors on a Slot that was released.
var ErrReleased = errors.New("slot has been released")

// Convert returns the Slot's content coerced to T.
func Convert[T any](s *Slot) (T, error) {
	var zero T
	v, err := s.ConvertTo(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	if !v.IsValid() || !v.CanInterface() {
		return zero, nil
	}
	out, ok := v.Interface().(T)
	if !ok {
		return zero, nil
	}
	return out, nil
}

// Must is like Convert but panics with the *kwerr.ConversionError.
func Must[T any](s *Slot) T {
	v, err := Convert[T](s)
	if err != nil {
		panic(err)
	}
	return v
}

// ConvertTo coerces the Slot's content to t.
func (s *Slot) ConvertTo(t reflect.Type) (reflect.Value, error) {
	if s.released {
		return reflect.Value{}, &kwerr.ConversionError{
			Code: kwerr.CodeIncorrectConversion,
			From: s.TypeName(),
			To:   typeName(t),
			Err:  ErrReleased,
		}
	}
	return convert(s, t)
}

func convert(s *Slot, t reflect.Type) (reflect.Value, error) {
	src := s.raw()
	if !src.IsValid() {
		return fromNil(s, t)
	}
	switch k := t.Kind(); {
	case t == charType:
		return toChar(s, src, t)
	case isTextTarget(t):
		return toText(s, src, t)
	case isIntegralKind(k):
		return toInteger(s, src, t)
	case isFloatKind(k):
		return toFloat(s, src, t)
	default:
		return toObject(s, src, t)
	}
}

// fromNil yields the zero value for targets that have a natural empty state.
func fromNil(s *Slot, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return reflect.Zero(t), nil
	}
	if isNumericKind(t.Kind()) {
		return reflect.Zero(t), nil
	}
	return reflect.Value{}, incorrect(s, t)
}

func toObject(s *Slot, src reflect.Value, t reflect.Type) (reflect.Value, error) {
	st := src.Type()
	if st == t {
		return src, nil
	}
	if t.Kind() == reflect.Interface && st.Implements(t) {
		out := reflect.New(t).Elem()
		out.Set(src)
		return out, nil
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		if str, ok := s.text(); ok {
			p := reflect.New(t)
			if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(str)); err != nil {
				return reflect.Value{}, &kwerr.ConversionError{
					Code:  kwerr.CodeMalformedText,
					From:  s.TypeName(),
					To:    typeName(t),
					Input: str,
					Err:   err,
				}
			}
			return p.Elem(), nil
		}
	}
	if s.own == Borrowed && t.Kind() == reflect.Pointer && t.Elem() == st && src.CanAddr() {
		return src.Addr(), nil
	}
	if t.Kind() == reflect.Array {
		return toArray(s, src, t)
	}

	tw := WitnessOf(t)
	switch {
	case tw.Has(CapInsertable) && s.Witness().Has(CapIterable):
		return toContainer(s, src, t)
	case t.Kind() == reflect.Struct && st.Kind() == reflect.Struct:
		return toTuple(s, src, t)
	case tw.Has(CapInsertable):
		return toContainer(s, src, t)
	}

	switch t.Kind() {
	case reflect.Complex64, reflect.Complex128, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return reflect.Value{}, kwerr.NewConversion(kwerr.CodeUnsupportedType, s.TypeName(), typeName(t))
	}
	return reflect.Value{}, incorrect(s, t)
}

// toContainer builds an insertable container. Iterable sources are walked
// from begin to end; elements of the target's element type are inserted
// as-is, anything else is boxed and converted. A non-iterable source becomes
// a one-element container.
func toContainer(s *Slot, src reflect.Value, t reflect.Type) (reflect.Value, error) {
	tw := WitnessOf(t)
	sw := s.Witness()
	out := tw.empty()

	if !sw.Has(CapIterable) {
		v, err := convert(s, tw.elem)
		if err != nil {
			return reflect.Value{}, err
		}
		tw.insertInto(out, v)
		return out, nil
	}

	it := sw.Begin(src)
	if sw.elem == tw.elem {
		for e, ok := it.Next(); ok; e, ok = it.Next() {
			tw.insertInto(out, e)
		}
		return out, nil
	}
	for i := 0; ; i++ {
		e, ok := it.NextSlot()
		if !ok {
			break
		}
		v, err := convert(e, tw.elem)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		tw.insertInto(out, v)
	}
	return out, nil
}

// toArray fills a fixed-size array. Surplus source elements are dropped and
// missing ones stay zero. Text fills byte arrays; any other non-iterable
// source fills the first element.
func toArray(s *Slot, src reflect.Value, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	n := t.Len()
	sw := s.Witness()

	if sw.Has(CapIterable) {
		it := sw.Begin(src)
		for i := 0; i < n; i++ {
			if sw.elem == t.Elem() {
				e, ok := it.Next()
				if !ok {
					break
				}
				out.Index(i).Set(e)
				continue
			}
			e, ok := it.NextSlot()
			if !ok {
				break
			}
			v, err := convert(e, t.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(v)
		}
		return out, nil
	}

	if str, ok := s.text(); ok && t.Elem().Kind() == reflect.Uint8 {
		for i := 0; i < n && i < len(str); i++ {
			out.Index(i).SetUint(uint64(str[i]))
		}
		return out, nil
	}

	if n > 0 {
		v, err := convert(s, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(0).Set(v)
	}
	return out, nil
}

// toTuple converts struct to struct by field position. Both structs need the
// same number of fields, all exported.
func toTuple(s *Slot, src reflect.Value, t reflect.Type) (reflect.Value, error) {
	st := src.Type()
	if st.NumField() != t.NumField() {
		return reflect.Value{}, incorrect(s, t)
	}
	out := reflect.New(t).Elem()
	for i := 0; i < t.NumField(); i++ {
		if !st.Field(i).IsExported() || !t.Field(i).IsExported() {
			return reflect.Value{}, kwerr.NewConversion(kwerr.CodeUnsupportedType, s.TypeName(), typeName(t))
		}
		e := fromReflect(src.Field(i))
		v, err := convert(&e, t.Field(i).Type)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("field %s: %w", t.Field(i).Name, err)
		}
		out.Field(i).Set(v)
	}
	return out, nil
}
