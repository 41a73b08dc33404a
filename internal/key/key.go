package key

import (
	"cmp"
	"fmt"
)

// Hash parameters. Both are prime and coprime; see IsPrime and key_test.go.
const (
	Base    uint64 = 0x1C1
	Modulus uint64 = 0x91F5BCB8BB0243
)

// Key identifies a name by its rolling hash.
type Key uint64

// New hashes name byte by byte, case-sensitively.
func New(name string) Key {
	var h Hasher
	h.PushString(name)
	return h.Sum()
}

// Fold hashes name with ASCII letters folded to lower case, so "Name" and
// "NAME" produce the same Key.
func Fold(name string) Key {
	h := Hasher{Fold: true}
	h.PushString(name)
	return h.Sum()
}

// Char hashes a single character.
func Char(c byte) Key {
	var h Hasher
	h.Push(c)
	return h.Sum()
}

// Of returns New(name) or Fold(name) depending on fold.
func Of(name string, fold bool) Key {
	if fold {
		return Fold(name)
	}
	return New(name)
}

// Or joins two keys into an alternates list.
func (k Key) Or(other Key) Keys {
	return Keys{k, other}
}

// OrName joins k with the hash of name.
func (k Key) OrName(name string) Keys {
	return Keys{k, New(name)}
}

// Compare orders keys by their numeric hash.
func (k Key) Compare(other Key) int {
	return cmp.Compare(k, other)
}

// String renders the hash in hex.
func (k Key) String() string {
	return fmt.Sprintf("0x%016x", uint64(k))
}

// Hasher builds a Key incrementally. The zero value is ready to use.
type Hasher struct {
	// Fold enables ASCII case-insensitive hashing.
	Fold bool

	sum uint64
}

// Push folds one byte into the hash.
func (h *Hasher) Push(c byte) {
	if h.Fold {
		c = lower(c)
	}
	h.sum = (h.sum*Base%Modulus + uint64(c)) % Modulus
}

// PushString folds every byte of s into the hash.
func (h *Hasher) PushString(s string) {
	for i := 0; i < len(s); i++ {
		h.Push(s[i])
	}
}

// Sum returns the Key built so far.
func (h *Hasher) Sum() Key {
	return Key(h.sum)
}

// Reset clears the hash, keeping the Fold setting.
func (h *Hasher) Reset() {
	h.sum = 0
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
