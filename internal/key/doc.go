// Package key provides the hashed identifiers used to name keyword arguments.
//
// A Key is a 64-bit polynomial rolling hash of a name:
//
//	hash = (hash*Base + byte) mod Modulus
//
// Base and Modulus are coprime primes and Base*Modulus fits in a uint64, so a
// single step never overflows. Equality and ordering use only the numeric hash;
// collisions are possible and are not detected.
//
// Alternate names are expressed as Keys, an ordered list evaluated
// first-match-wins by lookups:
//
//	k := key.New("name").Or(key.New("n"))
package key
