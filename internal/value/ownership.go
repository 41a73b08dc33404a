package value

// Ownership describes how a Slot holds its value.
type Ownership uint8

const (
	// Embedded values are word-sized scalars or pointers copied inline.
	Embedded Ownership = iota

	// Borrowed values live in a variable owned by the caller; the Slot reads
	// through to it and never copies. The variable must outlive the Slot.
	Borrowed

	// Owned values were moved into the Slot, which releases them exactly once.
	Owned

	// LiteralSpan values are fixed character sequences given at the call site.
	LiteralSpan
)

func (o Ownership) String() string {
	switch o {
	case Embedded:
		return "embedded"
	case Borrowed:
		return "borrowed"
	case Owned:
		return "owned"
	case LiteralSpan:
		return "literal"
	default:
		return "unknown"
	}
}
