// Package digits holds the reference digit sequence.
package digits

// Pi is the fractional part of π after the leading "3.".
const Pi = "14159265358979323846264338327950288419716939937510" +
	"58209749445923078164062862089986280348253421170679" +
	"82148086513282306647093844609550582231725359408128" +
	"48111745028410270193852110555964462294895493038196"

// Sequence is an immutable ordered run of decimal digits.
type Sequence struct {
	digits string
}

// New returns a Sequence over s. Every byte of s must be an ASCII digit.
func New(s string) Sequence {
	return Sequence{digits: s}
}

// PiSequence returns the 200-digit π reference sequence.
func PiSequence() Sequence {
	return New(Pi)
}

// Len returns the number of digits.
func (s Sequence) Len() int {
	return len(s.digits)
}

// At returns the digit at index i.
func (s Sequence) At(i int) int {
	return int(s.digits[i] - '0')
}

// Prefix returns the first n digits, clamped to the sequence length.
func (s Sequence) Prefix(n int) string {
	if n <= 0 {
		return ""
	}
	if n > len(s.digits) {
		n = len(s.digits)
	}
	return s.digits[:n]
}
