package key

import "slices"

// Keys is an ordered list of alternate keys. Lookups try each key in order
// and the first one present wins.
type Keys []Key

// Any hashes every name into an alternates list.
func Any(names ...string) Keys {
	ks := make(Keys, len(names))
	for i, n := range names {
		ks[i] = New(n)
	}
	return ks
}

// AnyFold is Any with ASCII case folding.
func AnyFold(names ...string) Keys {
	ks := make(Keys, len(names))
	for i, n := range names {
		ks[i] = Fold(n)
	}
	return ks
}

// Or appends another alternate and returns the extended list.
// The receiver is not modified.
func (ks Keys) Or(k Key) Keys {
	out := make(Keys, len(ks), len(ks)+1)
	copy(out, ks)
	return append(out, k)
}

// OrName appends the hash of name.
func (ks Keys) OrName(name string) Keys {
	return ks.Or(New(name))
}

// Contains reports whether k is one of the alternates.
func (ks Keys) Contains(k Key) bool {
	return slices.Contains(ks, k)
}
