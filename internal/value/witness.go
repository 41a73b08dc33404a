package value

import (
	"cmp"
	"reflect"
	"slices"
	"sync"
	"unsafe"
)

// Capability is a bit set of the traits a Witness reports for its type.
type Capability uint16

const (
	CapIntegral Capability = 1 << iota
	CapReal
	CapSigned
	CapEnum
	CapIterable
	CapElemType
	CapFixedArray
	CapText
	CapInsertable
)

// insertKind is the container insertion method selected for a type.
// The order of the constants is the selection priority.
type insertKind uint8

const (
	insertNone insertKind = iota
	insertAppendBuiltin
	insertMapIndex
	insertAppend
	insertPushBack
	insertPush
	insertKeyed
	insertAtEnd
	insertPushFront
)

// methodInserts lists the method names probed, in priority order, for types
// that are neither slices nor maps. Each takes exactly one element argument,
// except insertAtEnd which takes (index int, element) and needs Len() int.
var methodInserts = []struct {
	kind insertKind
	name string
}{
	{insertAppend, "Append"},
	{insertPushBack, "PushBack"},
	{insertPush, "Push"},
	{insertKeyed, "Insert"},
	{insertAtEnd, "Insert"},
	{insertPushFront, "PushFront"},
}

// Witness bundles the type-specific behaviour of one originating type.
// Witnesses are created once per type by WitnessOf and never change.
type Witness struct {
	typ  reflect.Type
	elem reflect.Type
	caps Capability

	insert     insertKind
	insertName string

	// seqMethod names a zero-argument method returning func(yield func(E) bool),
	// as iter.Seq does, for custom iterable types.
	seqMethod string
}

var (
	witnesses  sync.Map // reflect.Type -> *Witness
	nilWitness = &Witness{}
	intType    = reflect.TypeFor[int]()
)

// WitnessOf returns the cached Witness for t, building it on first use.
// A nil t yields the witness of the untyped nil value.
func WitnessOf(t reflect.Type) *Witness {
	if t == nil {
		return nilWitness
	}
	if w, ok := witnesses.Load(t); ok {
		return w.(*Witness)
	}
	w, _ := witnesses.LoadOrStore(t, buildWitness(t))
	return w.(*Witness)
}

func buildWitness(t reflect.Type) *Witness {
	w := &Witness{typ: t}

	switch t.Kind() {
	case reflect.Bool:
		w.caps |= CapIntegral
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		w.caps |= CapIntegral | CapSigned
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		w.caps |= CapIntegral
	case reflect.Float32, reflect.Float64:
		w.caps |= CapReal | CapSigned
	case reflect.String:
		w.caps |= CapText
	case reflect.Slice:
		w.elem = t.Elem()
		w.caps |= CapIterable | CapElemType | CapInsertable
		w.insert = insertAppendBuiltin
	case reflect.Array:
		w.elem = t.Elem()
		w.caps |= CapIterable | CapElemType | CapFixedArray
	case reflect.Map:
		w.elem = pairType(t.Key(), t.Elem())
		w.caps |= CapIterable | CapElemType | CapInsertable
		w.insert = insertMapIndex
	}

	if w.caps&CapIntegral != 0 && t.Kind() != reflect.Bool && t.PkgPath() != "" && t != charType {
		w.caps |= CapEnum
	}

	if w.insert == insertNone && t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		w.probeMethods()
	}
	return w
}

// probeMethods selects an insertion method and an iteration method for
// user-defined containers. Methods are looked up on *T so both value and
// pointer receivers count.
func (w *Witness) probeMethods() {
	pt := reflect.PointerTo(w.typ)

	if m, ok := pt.MethodByName("All"); ok && m.Type.NumIn() == 1 && m.Type.NumOut() == 1 {
		if elem, ok := seqElem(m.Type.Out(0)); ok {
			w.seqMethod = "All"
			w.elem = elem
			w.caps |= CapIterable | CapElemType
		}
	}

	for _, cand := range methodInserts {
		m, ok := pt.MethodByName(cand.name)
		if !ok {
			continue
		}
		mt := m.Type
		var elem reflect.Type
		switch {
		case cand.kind == insertAtEnd:
			if mt.NumIn() != 3 || mt.In(1) != intType {
				continue
			}
			if lm, ok := pt.MethodByName("Len"); !ok || lm.Type.NumIn() != 1 || lm.Type.NumOut() != 1 || lm.Type.Out(0) != intType {
				continue
			}
			elem = mt.In(2)
		default:
			if mt.NumIn() != 2 {
				continue
			}
			elem = mt.In(1)
		}
		if w.elem != nil && w.elem != elem {
			continue
		}
		w.elem = elem
		w.insert = cand.kind
		w.insertName = cand.name
		w.caps |= CapInsertable | CapElemType
		return
	}
}

// seqElem reports the element type of func(yield func(E) bool).
func seqElem(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 0 {
		return nil, false
	}
	yield := t.In(0)
	if yield.Kind() != reflect.Func || yield.NumIn() != 1 || yield.NumOut() != 1 || yield.Out(0).Kind() != reflect.Bool {
		return nil, false
	}
	return yield.In(0), true
}

// TypeID is the identity of the originating type, nil for untyped nil.
func (w *Witness) TypeID() reflect.Type { return w.typ }

// ElemTypeID is the declared element type, nil when the type has none.
func (w *Witness) ElemTypeID() reflect.Type { return w.elem }

// Name is the originating type's name.
func (w *Witness) Name() string { return typeName(w.typ) }

// Caps returns every capability of the type.
func (w *Witness) Caps() Capability { return w.caps }

// Has reports whether the type has all of the given capabilities.
func (w *Witness) Has(c Capability) bool { return w.caps&c == c }

// IsNumeric reports integral or real types, including bool.
func (w *Witness) IsNumeric() bool { return w.caps&(CapIntegral|CapReal) != 0 }

func (w *Witness) embeddable() bool {
	if w.typ == nil || w.typ.Size() > unsafe.Sizeof(uintptr(0)) {
		return false
	}
	switch w.typ.Kind() {
	case reflect.Pointer, reflect.UnsafePointer:
		return true
	}
	return w.IsNumeric()
}

// Copy deep-copies v into newly owned storage. Slices, maps, arrays, exported
// struct fields and interface contents are copied recursively; pointers are
// shared.
func (w *Witness) Copy(v reflect.Value) reflect.Value {
	return deepCopy(v)
}

// Destroy drops the reference held in *v so the storage can be collected.
func (w *Witness) Destroy(v *reflect.Value) {
	*v = reflect.Value{}
}

func deepCopy(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}
	t := v.Type()
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(t, v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(t, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(deepCopy(iter.Key()), deepCopy(iter.Value()))
		}
		return out
	case reflect.Array:
		out := reflect.New(t).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(deepCopy(v.Index(i)))
		}
		return out
	case reflect.Struct:
		out := reflect.New(t).Elem()
		out.Set(v)
		for i := 0; i < t.NumField(); i++ {
			if f := out.Field(i); f.CanSet() {
				f.Set(deepCopy(v.Field(i)))
			}
		}
		return out
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(t).Elem()
		out.Set(deepCopy(v.Elem()))
		return out
	default:
		return v
	}
}

// Iterator walks the elements of an iterable value from begin to end.
type Iterator struct {
	items []reflect.Value
	pos   int
}

// Begin starts iteration over v, which must have the witness's type.
// Maps iterate as Key/Value pairs, ordered by key when the key kind is ordered.
func (w *Witness) Begin(v reflect.Value) *Iterator {
	it := &Iterator{}
	switch {
	case v.Kind() == reflect.Slice || v.Kind() == reflect.Array:
		it.items = make([]reflect.Value, v.Len())
		for i := range it.items {
			it.items[i] = v.Index(i)
		}
	case v.Kind() == reflect.Map:
		keys := v.MapKeys()
		sortKeys(keys)
		for _, k := range keys {
			p := reflect.New(w.elem).Elem()
			p.Field(0).Set(k)
			p.Field(1).Set(v.MapIndex(k))
			it.items = append(it.items, p)
		}
	case w.seqMethod != "":
		if !v.CanAddr() {
			cp := reflect.New(v.Type()).Elem()
			cp.Set(v)
			v = cp
		}
		seq := v.Addr().MethodByName(w.seqMethod).Call(nil)[0]
		yieldType := seq.Type().In(0)
		yield := reflect.MakeFunc(yieldType, func(args []reflect.Value) []reflect.Value {
			it.items = append(it.items, args[0])
			return []reflect.Value{reflect.ValueOf(true)}
		})
		seq.Call([]reflect.Value{yield})
	}
	return it
}

// Next yields the raw element, or false at the end.
func (it *Iterator) Next() (reflect.Value, bool) {
	if it.pos >= len(it.items) {
		return reflect.Value{}, false
	}
	v := it.items[it.pos]
	it.pos++
	return v, true
}

// NextSlot yields the element boxed into a Slot, or false at the end.
func (it *Iterator) NextSlot() (*Slot, bool) {
	v, ok := it.Next()
	if !ok {
		return nil, false
	}
	s := fromReflect(v)
	return &s, true
}

func sortKeys(keys []reflect.Value) {
	if len(keys) == 0 {
		return
	}
	switch keys[0].Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Int(), b.Int()) })
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Uint(), b.Uint()) })
	case reflect.Float32, reflect.Float64:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Float(), b.Float()) })
	case reflect.String:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })
	}
}

// empty constructs an addressable, empty container of the witness's type.
func (w *Witness) empty() reflect.Value {
	out := reflect.New(w.typ).Elem()
	switch w.typ.Kind() {
	case reflect.Slice:
		out.Set(reflect.MakeSlice(w.typ, 0, 0))
	case reflect.Map:
		out.Set(reflect.MakeMap(w.typ))
	}
	return out
}

// insertInto adds elem, already of the element type, to the addressable
// container c using the method selected when the witness was built.
func (w *Witness) insertInto(c, elem reflect.Value) {
	switch w.insert {
	case insertAppendBuiltin:
		c.Set(reflect.Append(c, elem))
	case insertMapIndex:
		c.SetMapIndex(elem.Field(0), elem.Field(1))
	case insertAtEnd:
		n := c.Addr().MethodByName("Len").Call(nil)[0]
		c.Addr().MethodByName(w.insertName).Call([]reflect.Value{n, elem})
	default:
		c.Addr().MethodByName(w.insertName).Call([]reflect.Value{elem})
	}
}
