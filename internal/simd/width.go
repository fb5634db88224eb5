package simd

import (
	"strconv"
	"strings"
)

// Width is a preferred vector register width in bits.
//
// It is a hint: Dot may pick a narrower kernel when the vector is short or
// the wide kernel is not available on this CPU.
type Width int

const (
	// Width128 selects the 2-lane kernel. Dot uses it for length-2 views only.
	Width128 Width = 128
	// Width256 selects the 8-lane kernel.
	Width256 Width = 256
	// Width512 selects the 16-lane kernel.
	Width512 Width = 512
)

// String returns the width in bits, e.g. "512".
func (w Width) String() string {
	return strconv.Itoa(int(w))
}

// Lanes returns the number of float32 lanes of a register of this width.
func (w Width) Lanes() int {
	return int(w) / 32
}

// ParseWidth parses "128", "256" or "512" (an optional "bit" suffix is allowed).
func ParseWidth(s string) (Width, bool) {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "bit")
	switch s {
	case "128":
		return Width128, true
	case "256":
		return Width256, true
	case "512":
		return Width512, true
	default:
		return 0, false
	}
}
