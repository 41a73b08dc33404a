package value

import (
	"errors"
	"math"
	"math/bits"
	"reflect"
	"strconv"
	"strings"

	"github.com/roach88/kwargs/internal/kwerr"
)

func isSignedKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUnsignedKind(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isIntegralKind(k reflect.Kind) bool {
	return k == reflect.Bool || isSignedKind(k) || isUnsignedKind(k)
}

func isNumericKind(k reflect.Kind) bool {
	return isIntegralKind(k) || isFloatKind(k)
}

// toInteger converts to bool, integer and enumeration targets.
func toInteger(s *Slot, src reflect.Value, t reflect.Type) (reflect.Value, error) {
	if src.Type() == t {
		return src, nil
	}
	if isNumericKind(src.Kind()) {
		return castNumber(src, t), nil
	}
	if text, ok := s.text(); ok {
		return parseInteger(s, text, t)
	}
	if src.Kind() == reflect.Pointer || src.Kind() == reflect.UnsafePointer {
		out := reflect.New(t).Elem()
		setUint(out, uint64(src.Pointer()))
		return out, nil
	}
	return reflect.Value{}, incorrect(s, t)
}

// toFloat converts to floating-point targets.
func toFloat(s *Slot, src reflect.Value, t reflect.Type) (reflect.Value, error) {
	if src.Type() == t {
		return src, nil
	}
	if isNumericKind(src.Kind()) {
		return castNumber(src, t), nil
	}
	if text, ok := s.text(); ok {
		return parseFloat(s, text, t)
	}
	return reflect.Value{}, incorrect(s, t)
}

// castNumber applies a Go numeric conversion from src to t. Narrowing wraps,
// and any non-zero value converts to true.
func castNumber(src reflect.Value, t reflect.Type) reflect.Value {
	out := reflect.New(t).Elem()
	switch k := src.Kind(); {
	case k == reflect.Bool:
		var n uint64
		if src.Bool() {
			n = 1
		}
		setUint(out, n)
	case isSignedKind(k):
		setInt(out, src.Int())
	case isUnsignedKind(k):
		setUint(out, src.Uint())
	default:
		setFloat(out, src.Float())
	}
	return out
}

func setInt(out reflect.Value, i int64) {
	switch k := out.Kind(); {
	case k == reflect.Bool:
		out.SetBool(i != 0)
	case isSignedKind(k):
		out.SetInt(i)
	case isUnsignedKind(k):
		out.SetUint(uint64(i))
	default:
		out.SetFloat(float64(i))
	}
}

func setUint(out reflect.Value, u uint64) {
	switch k := out.Kind(); {
	case k == reflect.Bool:
		out.SetBool(u != 0)
	case isSignedKind(k):
		out.SetInt(int64(u))
	case isUnsignedKind(k):
		out.SetUint(u)
	default:
		out.SetFloat(float64(u))
	}
}

func setFloat(out reflect.Value, f float64) {
	switch k := out.Kind(); {
	case k == reflect.Bool:
		out.SetBool(f != 0)
	case isSignedKind(k):
		out.SetInt(int64(f))
	case isUnsignedKind(k):
		if f < 0 {
			out.SetUint(uint64(int64(f)))
		} else {
			out.SetUint(uint64(f))
		}
	default:
		out.SetFloat(f)
	}
}

// limit returns the largest (or smallest) value of a numeric type. For
// floating-point types the minimum is the smallest positive normal value.
func limit(t reflect.Type, max bool) reflect.Value {
	out := reflect.New(t).Elem()
	switch k := t.Kind(); {
	case k == reflect.Bool:
		out.SetBool(max)
	case isSignedKind(k):
		n := t.Bits()
		if max {
			out.SetInt(int64(uint64(1)<<(n-1) - 1))
		} else {
			out.SetInt(-1 << (n - 1))
		}
	case isUnsignedKind(k):
		if max {
			out.SetUint(math.MaxUint64 >> (64 - t.Bits()))
		}
	case k == reflect.Float32:
		if max {
			out.SetFloat(math.MaxFloat32)
		} else {
			out.SetFloat(0x1p-126)
		}
	default:
		if max {
			out.SetFloat(math.MaxFloat64)
		} else {
			out.SetFloat(0x1p-1022)
		}
	}
	return out
}

// sentinel resolves the "max" and "min" text forms.
func sentinel(text string, t reflect.Type) (reflect.Value, bool) {
	switch strings.ToLower(text) {
	case "max":
		return limit(t, true), true
	case "min":
		return limit(t, false), true
	}
	return reflect.Value{}, false
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	}
	return 99
}

// parseInteger reads text as an integer of type t.
//
// Surrounding whitespace is ignored. A leading t or f (any case) means 1 or 0.
// A sign may precede an optional 0b, 0o, 0x or 0h base prefix. Digits are
// consumed up to the first character that is not a digit of the base, so
// "1314.520" reads as 1314. A magnitude that does not fit in 64 bits is
// out of range; narrowing to a smaller target wraps.
func parseInteger(s *Slot, text string, t reflect.Type) (reflect.Value, error) {
	str := strings.TrimSpace(text)
	if str == "" {
		return reflect.Value{}, malformed(s, t, text)
	}
	if v, ok := sentinel(str, t); ok {
		return v, nil
	}

	out := reflect.New(t).Elem()
	switch str[0] {
	case 't', 'T':
		setUint(out, 1)
		return out, nil
	case 'f', 'F':
		setUint(out, 0)
		return out, nil
	}

	neg := false
	if str[0] == '+' || str[0] == '-' {
		neg = str[0] == '-'
		str = str[1:]
	}

	base, prefixed := uint64(10), false
	if len(str) >= 2 && str[0] == '0' {
		switch str[1] {
		case 'b', 'B':
			base, prefixed = 2, true
		case 'o', 'O':
			base, prefixed = 8, true
		case 'x', 'X', 'h', 'H':
			base, prefixed = 16, true
		}
		if prefixed {
			str = str[2:]
		}
	}

	var mag uint64
	n := 0
	for i := 0; i < len(str); i++ {
		d := uint64(digitValue(str[i]))
		if d >= base {
			break
		}
		hi, lo := bits.Mul64(mag, base)
		sum, carry := bits.Add64(lo, d, 0)
		if hi != 0 || carry != 0 {
			return reflect.Value{}, outOfRange(s, t, text, strconv.ErrRange)
		}
		mag = sum
		n++
	}
	if n == 0 && !prefixed {
		return reflect.Value{}, malformed(s, t, text)
	}

	if neg {
		if mag > 1<<63 {
			return reflect.Value{}, outOfRange(s, t, text, strconv.ErrRange)
		}
		setInt(out, -int64(mag))
	} else {
		setUint(out, mag)
	}
	return out, nil
}

// parseFloat reads text as a floating-point number of type t.
//
// Accepted forms are inf, infinity and nan in any case with an optional sign,
// t/f, max/min, and [sign] digits ['.' digits] [e [sign] digits]. Trailing
// text after the longest such prefix is ignored.
func parseFloat(s *Slot, text string, t reflect.Type) (reflect.Value, error) {
	str := strings.TrimSpace(text)
	if str == "" {
		return reflect.Value{}, malformed(s, t, text)
	}
	if v, ok := sentinel(str, t); ok {
		return v, nil
	}

	out := reflect.New(t).Elem()
	body := str
	sign := 1.0
	if body[0] == '+' || body[0] == '-' {
		if body[0] == '-' {
			sign = -1
		}
		body = body[1:]
	}

	switch strings.ToLower(body) {
	case "inf", "infinity":
		out.SetFloat(math.Inf(int(sign)))
		return out, nil
	case "nan":
		out.SetFloat(math.NaN())
		return out, nil
	}
	if body == str && body != "" {
		switch body[0] {
		case 't', 'T':
			out.SetFloat(1)
			return out, nil
		case 'f', 'F':
			out.SetFloat(0)
			return out, nil
		}
	}

	end, digits := scanDecimal(body)
	if digits == 0 {
		return reflect.Value{}, malformed(s, t, text)
	}
	span := str[:len(str)-len(body)+end]
	f, err := strconv.ParseFloat(span, t.Bits())
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return reflect.Value{}, outOfRange(s, t, text, strconv.ErrRange)
		}
		return reflect.Value{}, malformed(s, t, text)
	}
	out.SetFloat(f)
	return out, nil
}

// scanDecimal returns the length of the longest prefix of str matching
// digits ['.' digits] [e [sign] digits], and how many mantissa digits it has.
func scanDecimal(str string) (end, digits int) {
	i := 0
	for i < len(str) && isDigit(str[i]) {
		i++
		digits++
	}
	if i < len(str) && str[i] == '.' {
		i++
		for i < len(str) && isDigit(str[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, 0
	}
	end = i
	if i < len(str) && (str[i] == 'e' || str[i] == 'E') {
		j := i + 1
		if j < len(str) && (str[j] == '+' || str[j] == '-') {
			j++
		}
		k := j
		for k < len(str) && isDigit(str[k]) {
			k++
		}
		if k > j {
			end = k
		}
	}
	return end, digits
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func malformed(s *Slot, t reflect.Type, text string) error {
	return kwerr.NewMalformed(s.TypeName(), typeName(t), text)
}

func outOfRange(s *Slot, t reflect.Type, text string, err error) error {
	return &kwerr.ConversionError{
		Code:  kwerr.CodeOutOfRange,
		From:  s.TypeName(),
		To:    typeName(t),
		Input: text,
		Err:   err,
	}
}

func incorrect(s *Slot, t reflect.Type) error {
	return kwerr.NewConversion(kwerr.CodeIncorrectConversion, s.TypeName(), typeName(t))
}
