package arinc429

// Parity returns the parity bit that makes the population count of the full
// word odd. Bit 31 of composite is ignored.
func Parity(composite uint32) uint8 {
	v := composite &^ (ParityMask << ParityShift)
	v ^= v >> 16
	v ^= v >> 8
	v ^= v >> 4
	v &= 0xf
	even := (evenParityTable >> v) & 1
	return uint8(even ^ 1)
}

// compose packs the fields without the parity bit.
func compose(label, sdi uint8, value uint32, ssm uint8) uint32 {
	return uint32(label&LabelMask)<<LabelShift |
		uint32(sdi&SDIMask)<<SDIShift |
		(value&ValueMask)<<ValueShift |
		uint32(ssm&SSMMask)<<SSMShift
}
