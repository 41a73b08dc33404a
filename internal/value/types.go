package value

import (
	"encoding"
	"fmt"
	"reflect"
)

// Char is a single character. It is distinct from uint8 so that conversions
// can tell a character from a small integer: Char('a') renders as "a", while
// uint8(97) renders as "97".
type Char byte

// Pair is the element shape for keyed containers. Maps iterate as pairs and
// accept any two-field struct as a keyed insert, so a map converts to and from
// a slice of Pair.
type Pair[K, V any] struct {
	Key   K
	Value V
}

var (
	charType            = reflect.TypeFor[Char]()
	stringType          = reflect.TypeFor[string]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	stringerType        = reflect.TypeFor[fmt.Stringer]()
)

// pairType returns the element type maps of k to v iterate as.
func pairType(k, v reflect.Type) reflect.Type {
	return reflect.StructOf([]reflect.StructField{
		{Name: "Key", Type: k},
		{Name: "Value", Type: v},
	})
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}
