package value

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

var byteSliceType = reflect.TypeFor[[]byte]()

// isTextTarget reports string kinds and byte slices.
func isTextTarget(t reflect.Type) bool {
	if t.Kind() == reflect.String {
		return true
	}
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 && t.Elem() != charType
}

// textValue builds a value of the text type t holding str.
func textValue(str string, t reflect.Type) reflect.Value {
	if t.Kind() == reflect.String {
		return reflect.ValueOf(str).Convert(t)
	}
	if byteSliceType.ConvertibleTo(t) {
		return reflect.ValueOf([]byte(str)).Convert(t)
	}
	out := reflect.MakeSlice(t, len(str), len(str))
	for i := 0; i < len(str); i++ {
		out.Index(i).SetUint(uint64(str[i]))
	}
	return out
}

func toText(s *Slot, src reflect.Value, t reflect.Type) (reflect.Value, error) {
	if s.own != LiteralSpan && src.Type() == t {
		return src, nil
	}
	if src.Kind() == reflect.Bool {
		return textValue(strconv.FormatBool(src.Bool()), t), nil
	}
	if str, ok := s.text(); ok {
		return textValue(str, t), nil
	}
	if src.Type().Implements(stringerType) && src.CanInterface() {
		return textValue(src.Interface().(fmt.Stringer).String(), t), nil
	}

	switch k := src.Kind(); {
	case isSignedKind(k):
		return textValue(strconv.FormatInt(src.Int(), 10), t), nil
	case isUnsignedKind(k):
		return textValue(strconv.FormatUint(src.Uint(), 10), t), nil
	case isFloatKind(k):
		return textValue(formatFloat(src.Float(), src.Type().Bits()), t), nil
	case k == reflect.Pointer || k == reflect.UnsafePointer:
		return textValue(strings.ToUpper(strconv.FormatUint(uint64(src.Pointer()), 16)), t), nil
	}

	if t.Kind() == reflect.Slice && s.Witness().Has(CapIterable) {
		return toContainer(s, src, t)
	}
	return reflect.Value{}, incorrect(s, t)
}

// formatFloat renders f in its shortest decimal form, switching to exponent
// notation below 1e-7 and from 1e21 on. Special values render as NaN, inf,
// -inf and -0.
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == 0 && math.Signbit(f):
		return "-0"
	}
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-7 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}
	return strconv.FormatFloat(f, 'e', -1, bitSize)
}

// toChar converts to the single-character type.
func toChar(s *Slot, src reflect.Value, t reflect.Type) (reflect.Value, error) {
	if src.Type() == t && s.own != LiteralSpan {
		return src, nil
	}
	out := reflect.New(t).Elem()
	if src.Kind() == reflect.Bool {
		if src.Bool() {
			out.SetUint('t')
		} else {
			out.SetUint('f')
		}
		return out, nil
	}
	if str, ok := s.text(); ok {
		if str != "" {
			out.SetUint(uint64(str[0]))
		}
		return out, nil
	}
	return toInteger(s, src, t)
}
