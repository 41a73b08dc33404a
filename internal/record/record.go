// Package record implements Record, the ordered keyword-argument list.
//
// A Record is built once from (key, value) entries and never changes. Keys are
// unique, and when the Record is built through a Shape every key must be on the
// Shape's whitelist. Lookups take one key or an ordered list of alternates and
// return an Item, which is either present or absent:
//
//	r := record.MustNew(record.E("name", "huanhuan"), record.E("old", "1314.520"))
//	name := record.ValueOr[string](r.Lookup(key.New("name")), "Empty")
//	old := record.ValueOr[int](r.LookupName("old", "age"))
package record

import (
	"iter"

	"github.com/roach88/kwargs/internal/key"
	"github.com/roach88/kwargs/internal/kwerr"
	"github.com/roach88/kwargs/internal/value"
)

// Entry is one (key, value) pair of a Record literal.
type Entry struct {
	Key key.Key

	// Name is the human-readable key name, empty when only the hash is known.
	Name string

	Slot value.Slot
}

// E builds an entry named name holding v.
func E(name string, v any) Entry {
	return Entry{Key: key.New(name), Name: name, Slot: value.Of(v)}
}

// K builds an entry from a precomputed key.
func K(k key.Key, v any) Entry {
	return Entry{Key: k, Slot: value.Of(v)}
}

// Ref builds an entry that borrows the variable p points to.
func Ref[T any](name string, p *T) Entry {
	return Entry{Key: key.New(name), Name: name, Slot: *value.Borrow(p)}
}

// Record is an ordered, duplicate-free list of keyword arguments.
type Record struct {
	entries []Entry
	fold    bool
}

// New builds a Record with no whitelist. It fails with a DUPLICATE_KEY
// *kwerr.ConstructionError if two entries share a key.
func New(entries ...Entry) (*Record, error) {
	return build(nil, entries)
}

// MustNew is like New but panics on error.
func MustNew(entries ...Entry) *Record {
	r, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

func build(sh *Shape, entries []Entry) (*Record, error) {
	r := &Record{entries: make([]Entry, len(entries))}
	if sh != nil {
		r.fold = sh.Fold
	}

	// Keys are checked before any slot moves so a rejected build leaves
	// the caller's entries untouched.
	seen := make(map[key.Key]struct{}, len(entries))
	for i := range entries {
		e := &entries[i]
		k := e.Key
		if sh != nil && e.Name != "" {
			k = sh.Key(e.Name)
		}
		if sh != nil && !sh.Allows(k) {
			return nil, kwerr.NewKeyNotAllowed(e.Name, uint64(k))
		}
		if _, dup := seen[k]; dup {
			return nil, kwerr.NewDuplicateKey(e.Name, uint64(k))
		}
		seen[k] = struct{}{}
		r.entries[i].Key = k
		r.entries[i].Name = e.Name
	}

	for i := range entries {
		r.entries[i].Slot.Take(&entries[i].Slot)
	}
	return r, nil
}

// Lookup returns the first entry matching any of keys, tried in order.
func (r *Record) Lookup(keys ...key.Key) Item {
	for _, k := range keys {
		for i := range r.entries {
			if r.entries[i].Key == k {
				return Item{entry: &r.entries[i]}
			}
		}
	}
	return Item{}
}

// LookupAny is Lookup over an alternates list.
func (r *Record) LookupAny(ks key.Keys) Item {
	return r.Lookup(ks...)
}

// LookupName hashes each name the way the Record's keys were hashed and
// looks them up in order.
func (r *Record) LookupName(names ...string) Item {
	keys := make(key.Keys, len(names))
	for i, n := range names {
		keys[i] = key.Of(n, r.fold)
	}
	return r.Lookup(keys...)
}

// Get returns the Slot of the first matching key.
func (r *Record) Get(keys ...key.Key) (*value.Slot, bool) {
	it := r.Lookup(keys...)
	return it.Slot(), it.HasValue()
}

// Len reports the number of entries.
func (r *Record) Len() int { return len(r.entries) }

// All yields every (key, slot) pair in insertion order.
func (r *Record) All() iter.Seq2[key.Key, *value.Slot] {
	return func(yield func(key.Key, *value.Slot) bool) {
		for i := range r.entries {
			if !yield(r.entries[i].Key, &r.entries[i].Slot) {
				return
			}
		}
	}
}

// Names returns the entry names in insertion order. Entries built from a
// bare key render as the key's hex form.
func (r *Record) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		if e.Name != "" {
			names[i] = e.Name
		} else {
			names[i] = e.Key.String()
		}
	}
	return names
}

// Release destroys every slot exactly once. Later calls do nothing.
func (r *Record) Release() {
	for i := range r.entries {
		r.entries[i].Slot.Release()
	}
}
