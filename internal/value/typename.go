package value

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/kwargs/internal/kwerr"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]reflect.Type{
		"bool":    reflect.TypeFor[bool](),
		"int":     reflect.TypeFor[int](),
		"int8":    reflect.TypeFor[int8](),
		"int16":   reflect.TypeFor[int16](),
		"int32":   reflect.TypeFor[int32](),
		"int64":   reflect.TypeFor[int64](),
		"uint":    reflect.TypeFor[uint](),
		"uint8":   reflect.TypeFor[uint8](),
		"uint16":  reflect.TypeFor[uint16](),
		"uint32":  reflect.TypeFor[uint32](),
		"uint64":  reflect.TypeFor[uint64](),
		"uintptr": reflect.TypeFor[uintptr](),
		"float32": reflect.TypeFor[float32](),
		"float64": reflect.TypeFor[float64](),
		"string":  stringType,
		"byte":    reflect.TypeFor[byte](),
		"rune":    reflect.TypeFor[rune](),
		"char":    charType,
		"bytes":   byteSliceType,
		"any":     reflect.TypeFor[any](),
		"uuid":    reflect.TypeFor[uuid.UUID](),
	}
)

// RegisterType makes t available to TypeByName under name. Registering an
// existing name replaces it.
func RegisterType(name string, t reflect.Type) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = t
}

func lookupType(name string) (reflect.Type, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := registry[name]
	return t, ok
}

// TypeByName parses a type expression. Registered names combine with the
// composite forms []T, [N]T, map[K]V and *T, e.g. "map[string][]int".
func TypeByName(expr string) (reflect.Type, error) {
	t, rest, err := parseType(strings.TrimSpace(expr))
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, unknownType(expr, fmt.Errorf("unexpected %q", rest))
	}
	return t, nil
}

// MustTypeByName is like TypeByName but panics on error.
func MustTypeByName(expr string) reflect.Type {
	t, err := TypeByName(expr)
	if err != nil {
		panic(err)
	}
	return t
}

func parseType(expr string) (reflect.Type, string, error) {
	switch {
	case expr == "":
		return nil, "", unknownType(expr, fmt.Errorf("empty type"))

	case strings.HasPrefix(expr, "*"):
		elem, rest, err := parseType(expr[1:])
		if err != nil {
			return nil, "", err
		}
		return reflect.PointerTo(elem), rest, nil

	case strings.HasPrefix(expr, "[]"):
		elem, rest, err := parseType(expr[2:])
		if err != nil {
			return nil, "", err
		}
		return reflect.SliceOf(elem), rest, nil

	case strings.HasPrefix(expr, "["):
		end := strings.IndexByte(expr, ']')
		if end < 0 {
			return nil, "", unknownType(expr, fmt.Errorf("unterminated array length"))
		}
		n, err := strconv.Atoi(expr[1:end])
		if err != nil || n < 0 {
			return nil, "", unknownType(expr, fmt.Errorf("bad array length %q", expr[1:end]))
		}
		elem, rest, err := parseType(expr[end+1:])
		if err != nil {
			return nil, "", err
		}
		return reflect.ArrayOf(n, elem), rest, nil

	case strings.HasPrefix(expr, "map["):
		k, rest, err := parseType(expr[len("map["):])
		if err != nil {
			return nil, "", err
		}
		if !strings.HasPrefix(rest, "]") {
			return nil, "", unknownType(expr, fmt.Errorf("expected ] after map key"))
		}
		if !k.Comparable() {
			return nil, "", unknownType(expr, fmt.Errorf("map key %s is not comparable", k))
		}
		v, rest, err := parseType(rest[1:])
		if err != nil {
			return nil, "", err
		}
		return reflect.MapOf(k, v), rest, nil
	}

	end := 0
	for end < len(expr) && isNameByte(expr[end]) {
		end++
	}
	name := expr[:end]
	t, ok := lookupType(name)
	if !ok {
		return nil, "", unknownType(name, fmt.Errorf("unknown type name"))
	}
	return t, expr[end:], nil
}

func isNameByte(c byte) bool {
	return c == '_' || c == '.' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func unknownType(expr string, err error) error {
	return &kwerr.ConversionError{
		Code:  kwerr.CodeUnsupportedType,
		From:  "type expression",
		To:    "type",
		Input: expr,
		Err:   err,
	}
}
