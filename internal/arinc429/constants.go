package arinc429

// Field masks, applied after shifting the field down to bit 0
const (
	LabelMask  = 0xFF    // 8 bits
	SDIMask    = 0x3     // 2 bits
	ValueMask  = 0x7FFFF // 19 bits
	SSMMask    = 0x3     // 2 bits
	ParityMask = 0x1     // 1 bit
)

// Field offsets within the 32-bit word
const (
	LabelShift  = 0
	SDIShift    = 8
	ValueShift  = 10
	SSMShift    = 29
	ParityShift = 31
)

// ValueBits is the width of the data field. SetBit and GetBit address it 1..ValueBits.
const ValueBits = 19

// evenParityTable is the even parity bit of every nibble value, indexed by the nibble.
const evenParityTable = 0x6996
