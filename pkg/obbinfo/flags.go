package obbinfo

import "fmt"

// Flags is the bit set stored in the footer's flags field.
type Flags uint32

const (
	FlagOverlay Flags = 1 << iota
	FlagSalted
)

// Has reports whether every bit in flag is set.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

func (f Flags) String() string {
	return fmt.Sprintf("0x%x", uint32(f))
}
