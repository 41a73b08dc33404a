package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kwargs/internal/kwerr"
)

func TestNewOwnership(t *testing.T) {
	n := 7
	tests := []struct {
		name string
		slot *Slot
		want Ownership
	}{
		{"int", New(42), Embedded},
		{"bool", New(true), Embedded},
		{"float64", New(3.5), Embedded},
		{"pointer", New(&n), Embedded},
		{"string", New("hello"), Owned},
		{"slice", New([]int{1, 2}), Owned},
		{"struct", New(Pair[int, int]{1, 2}), Owned},
		{"literal", Literal("abc"), LiteralSpan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.slot.Ownership())
		})
	}
}

func TestSize(t *testing.T) {
	assert.Equal(t, uintptr(4), New(int32(1)).Size())
	assert.Equal(t, uintptr(1), New(true).Size())
	assert.Equal(t, uintptr(8), New(1.0).Size())
	assert.Equal(t, uintptr(5), Literal("abcd\x00").Size())
}

func TestEmbeddedRoundTrip(t *testing.T) {
	assert.Equal(t, int8(-128), Must[int8](New(int8(-128))))
	assert.Equal(t, int16(-32768), Must[int16](New(int16(math.MinInt16))))
	assert.Equal(t, int32(math.MaxInt32), Must[int32](New(int32(math.MaxInt32))))
	assert.Equal(t, int64(math.MinInt64), Must[int64](New(int64(math.MinInt64))))
	assert.Equal(t, -1, Must[int](New(-1)))
	assert.Equal(t, uint8(200), Must[uint8](New(uint8(200))))
	assert.Equal(t, uint16(65535), Must[uint16](New(uint16(65535))))
	assert.Equal(t, uint32(math.MaxUint32), Must[uint32](New(uint32(math.MaxUint32))))
	assert.Equal(t, uint64(math.MaxUint64), Must[uint64](New(uint64(math.MaxUint64))))
	assert.Equal(t, uintptr(0xdeadbeef), Must[uintptr](New(uintptr(0xdeadbeef))))
	assert.Equal(t, float32(-1.25), Must[float32](New(float32(-1.25))))
	assert.Equal(t, math.SmallestNonzeroFloat64, Must[float64](New(math.SmallestNonzeroFloat64)))
	assert.Equal(t, true, Must[bool](New(true)))
	assert.Equal(t, Char('z'), Must[Char](New(Char('z'))))
}

func TestBorrowReadsThrough(t *testing.T) {
	names := []string{"a"}
	s := Borrow(&names)
	require.Equal(t, Borrowed, s.Ownership())

	names = append(names, "b")
	assert.Equal(t, []string{"a", "b"}, Must[[]string](s))

	p := Must[*[]string](s)
	assert.Same(t, &names, p)
}

func TestBorrowScalarIsEmbedded(t *testing.T) {
	n := 5
	s := Borrow(&n)
	assert.Equal(t, Embedded, s.Ownership())
	assert.Equal(t, 5, Must[int](s))
}

func TestBorrowNil(t *testing.T) {
	var p *string
	s := Borrow(p)
	assert.True(t, s.IsNil())
	assert.Equal(t, "nil", s.TypeName())
}

func TestLiteralDropsTerminator(t *testing.T) {
	s := Literal("Kwargs!\x00")
	assert.Equal(t, "Kwargs!", Must[string](s))
	assert.Equal(t, Char('K'), Must[Char](s))
	assert.Equal(t, "string", s.TypeName())
}

func TestNewCopiesOwnedStorage(t *testing.T) {
	xs := []int{1, 2, 3}
	s := New(xs)
	xs[0] = 99

	assert.Equal(t, Owned, s.Ownership())
	assert.Equal(t, []int{1, 2, 3}, Must[[]int](s))

	m := map[string]int{"a": 1}
	sm := New(m)
	m["a"] = 2
	assert.Equal(t, map[string]int{"a": 1}, Must[map[string]int](sm))
}

func TestAssignDeepCopiesOwned(t *testing.T) {
	src := New([]int{1, 2, 3})
	var dst Slot
	dst.Assign(src)

	src.Interface().([]int)[0] = 99

	assert.Equal(t, Owned, dst.Ownership())
	assert.Equal(t, []int{1, 2, 3}, Must[[]int](&dst))
	assert.Equal(t, []int{99, 2, 3}, Must[[]int](src))
}

func TestAssignKeepsBorrowedShallow(t *testing.T) {
	data := []int{1}
	src := Borrow(&data)
	var dst Slot
	dst.Assign(src)

	data[0] = 2
	assert.Equal(t, Borrowed, dst.Ownership())
	assert.Equal(t, []int{2}, Must[[]int](&dst))
}

func TestNewFromSlotCopies(t *testing.T) {
	src := New(map[string]int{"a": 1})
	cp := New(src)
	src.Interface().(map[string]int)["a"] = 2
	assert.Equal(t, map[string]int{"a": 1}, Must[map[string]int](cp))
}

func TestTakeDemotesDonor(t *testing.T) {
	src := New([]string{"x"})
	var dst Slot
	dst.Take(src)

	assert.Equal(t, Owned, dst.Ownership())
	assert.Equal(t, Borrowed, src.Ownership())
	assert.Equal(t, []string{"x"}, Must[[]string](src))
	assert.Equal(t, []string{"x"}, Must[[]string](&dst))

	// The donor no longer owns, so releasing it leaves dst intact.
	require.True(t, src.Release())
	assert.Equal(t, []string{"x"}, Must[[]string](&dst))
}

func TestReleaseOnce(t *testing.T) {
	s := New("owned")
	assert.True(t, s.Release())
	assert.False(t, s.Release())
	assert.True(t, s.Released())

	_, err := Convert[string](s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReleased)
	assert.True(t, kwerr.IsConversionError(err))
}

func TestSlotString(t *testing.T) {
	assert.Equal(t, "int(embedded)", New(1).String())
	assert.Equal(t, "string(owned)", New("x").String())
	assert.Equal(t, "string(literal)", Literal("x").String())
	assert.Equal(t, "nil(embedded)", New(nil).String())
}

func TestInterface(t *testing.T) {
	assert.Equal(t, 3, New(3).Interface())
	assert.Equal(t, "s", New("s").Interface())
	assert.Nil(t, New(nil).Interface())
}
