package record

import (
	"slices"

	"github.com/roach88/kwargs/internal/key"
)

// Shape is the declared signature of a Record: an optional key whitelist and
// whether names are hashed case-insensitively. An empty whitelist allows
// every key.
type Shape struct {
	Fold bool

	allowed map[key.Key]string
	names   []string
}

// NewShape declares a case-sensitive whitelist.
func NewShape(names ...string) *Shape {
	return newShape(false, names)
}

// NewFoldShape declares a whitelist whose names, and the names of entries
// built through it, are hashed with ASCII case folding.
func NewFoldShape(names ...string) *Shape {
	return newShape(true, names)
}

func newShape(fold bool, names []string) *Shape {
	sh := &Shape{Fold: fold, allowed: make(map[key.Key]string, len(names))}
	for _, n := range names {
		k := key.Of(n, fold)
		if _, ok := sh.allowed[k]; ok {
			continue
		}
		sh.allowed[k] = n
		sh.names = append(sh.names, n)
	}
	return sh
}

// Key hashes name the way this Shape does.
func (sh *Shape) Key(name string) key.Key {
	return key.Of(name, sh.Fold)
}

// Allows reports whether k may appear in a Record of this Shape.
func (sh *Shape) Allows(k key.Key) bool {
	if len(sh.allowed) == 0 {
		return true
	}
	_, ok := sh.allowed[k]
	return ok
}

// Names returns the whitelist in declaration order.
func (sh *Shape) Names() []string {
	return slices.Clone(sh.names)
}

// New builds a Record of this Shape. Named entries are re-hashed with the
// Shape's folding. It fails with KEY_NOT_ALLOWED for a key outside a
// non-empty whitelist and DUPLICATE_KEY for a repeated key.
func (sh *Shape) New(entries ...Entry) (*Record, error) {
	return build(sh, entries)
}

// MustNew is like New but panics on error.
func (sh *Shape) MustNew(entries ...Entry) *Record {
	r, err := sh.New(entries...)
	if err != nil {
		panic(err)
	}
	return r
}
