// Package arglist implements ArgList, a fixed-size list of positional
// arguments of mixed types.
//
//	args := arglist.New(10, "20", 30.5)
//	last := value.Must[int](args.Index(-1)) // 30
package arglist

import (
	"iter"

	"github.com/roach88/kwargs/internal/kwerr"
	"github.com/roach88/kwargs/internal/value"
)

// ArgList owns one block of Slots, one per argument.
type ArgList struct {
	slots []value.Slot
}

// New boxes each value into a Slot. A *value.Slot argument is deep-copied.
func New(values ...any) *ArgList {
	a := &ArgList{slots: make([]value.Slot, len(values))}
	for i, v := range values {
		a.slots[i] = value.Of(v)
	}
	return a
}

// FromSlots takes ownership of slots, moving each one into the list.
func FromSlots(slots ...*value.Slot) *ArgList {
	a := &ArgList{slots: make([]value.Slot, len(slots))}
	for i, s := range slots {
		a.slots[i].Take(s)
	}
	return a
}

// Len reports the number of arguments.
func (a *ArgList) Len() int { return len(a.slots) }

// At returns the argument at index i. Negative indices count from the back,
// so -1 is the last argument. It fails with an INDEX_OUT_OF_RANGE
// *kwerr.ConstructionError outside [-Len, Len).
func (a *ArgList) At(i int) (*value.Slot, error) {
	j := i
	if j < 0 {
		j += len(a.slots)
	}
	if j < 0 || j >= len(a.slots) {
		return nil, kwerr.NewIndexOutOfRange(i, len(a.slots))
	}
	return &a.slots[j], nil
}

// Index is like At but panics on a bad index.
func (a *ArgList) Index(i int) *value.Slot {
	s, err := a.At(i)
	if err != nil {
		panic(err)
	}
	return s
}

// All yields each (index, slot) pair from front to back.
func (a *ArgList) All() iter.Seq2[int, *value.Slot] {
	return func(yield func(int, *value.Slot) bool) {
		for i := range a.slots {
			if !yield(i, &a.slots[i]) {
				return
			}
		}
	}
}

// Release destroys every slot exactly once. Later calls do nothing.
func (a *ArgList) Release() {
	for i := range a.slots {
		a.slots[i].Release()
	}
}
