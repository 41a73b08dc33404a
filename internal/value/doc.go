// Package value implements Slot, a type-erased holder for a single keyword
// argument, and the conversion engine that coerces a held value to whatever
// type the callee asks for.
//
// A Slot records how it holds its value (see Ownership) and a Witness for the
// originating type. The Witness is resolved once per type and cached; it is the
// only path for type-specific work: deep copy, release, type identity, element
// type identity, iteration and container insertion.
//
// Conversion is dispatched on the target type:
//
//   - text (string kinds, []byte): exact match, bool, Char, text marshalers,
//     byte buffers, decimal rendering of numbers
//   - Char: exact match, first byte of text, else the integer path
//   - integers, bool and enums: same kind, numeric cast, text parse
//     (0b/0o/0x/0h prefixes, t/f, max/min)
//   - floats: same kind, numeric cast, text parse (inf, nan, exponents)
//   - everything else: exact match, interfaces, text unmarshalers, fixed
//     arrays, tuples (struct to struct by position) and insertable containers,
//     converting elements recursively through boxed Slots
//
// Convert returns a *kwerr.ConversionError when no path exists; Must panics
// with the same error.
package value
