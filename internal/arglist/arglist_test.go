package arglist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kwargs/internal/kwerr"
	"github.com/roach88/kwargs/internal/value"
)

func TestIndexFrontAndBack(t *testing.T) {
	args := New(10, 20, 30)

	assert.Equal(t, 3, args.Len())
	assert.Equal(t, 10, value.Must[int](args.Index(0)))
	assert.Equal(t, 30, value.Must[int](args.Index(2)))
	assert.Equal(t, 30, value.Must[int](args.Index(-1)))
	assert.Equal(t, 10, value.Must[int](args.Index(-3)))
}

func TestOutOfRange(t *testing.T) {
	args := New(10, 20, 30)

	for _, i := range []int{3, 4, -4, -100} {
		_, err := args.At(i)
		require.Error(t, err, "index %d", i)
		assert.True(t, kwerr.HasCode(err, kwerr.CodeIndexOutOfRange))
	}

	assert.PanicsWithError(t,
		"INDEX_OUT_OF_RANGE: argument index out of range (index=-4, len=3)",
		func() { args.Index(-4) })

	_, err := New().At(0)
	assert.True(t, kwerr.IsConstructionError(err))
}

func TestHeterogeneous(t *testing.T) {
	args := New("12", 3.5, []int{1, 2}, true, nil)

	assert.Equal(t, 12, value.Must[int](args.Index(0)))
	assert.Equal(t, "3.5", value.Must[string](args.Index(1)))
	assert.Equal(t, []string{"1", "2"}, value.Must[[]string](args.Index(2)))
	assert.Equal(t, "true", value.Must[string](args.Index(3)))
	assert.True(t, args.Index(4).IsNil())

	assert.Equal(t, value.Owned, args.Index(0).Ownership())
	assert.Equal(t, value.Embedded, args.Index(1).Ownership())
}

func TestAll(t *testing.T) {
	args := New("a", "b", "c")

	var got []string
	for i, s := range args.All() {
		got = append(got, value.Must[string](s))
		assert.Equal(t, value.Must[string](args.Index(i)), got[i])
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestFromSlotsMoves(t *testing.T) {
	s := value.New([]int{1})
	args := FromSlots(s, value.Literal("x"))

	assert.Equal(t, value.Borrowed, s.Ownership())
	assert.Equal(t, value.Owned, args.Index(0).Ownership())
	assert.Equal(t, value.LiteralSpan, args.Index(1).Ownership())
}

func TestNewCopiesSlots(t *testing.T) {
	s := value.New([]int{1})
	args := New(s)

	assert.Equal(t, value.Owned, s.Ownership())
	assert.Equal(t, []int{1}, value.Must[[]int](args.Index(0)))
}

func TestRelease(t *testing.T) {
	args := New("x", 1)
	args.Release()
	args.Release()

	_, err := value.Convert[string](args.Index(0))
	assert.ErrorIs(t, err, value.ErrReleased)
}
