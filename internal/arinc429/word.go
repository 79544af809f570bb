package arinc429

import "fmt"

// Word is a single ARINC 429 data word, kept both as the raw 32-bit value and
// as its decoded fields. Every setter recomputes the parity bit and the raw
// value before returning. A Word is not safe for concurrent mutation.
type Word struct {
	raw    uint32
	label  uint8
	sdi    uint8
	value  uint32
	ssm    uint8
	parity uint8
}

// Empty returns a word with every field zero.
func Empty() Word {
	return Decode(0)
}

// Decode splits a raw 32-bit word into its fields. The parity bit is taken
// from raw as is, so a corrupted word can be detected with ParityValid.
func Decode(raw uint32) Word {
	var w Word
	w.Set(raw)
	return w
}

// NewWord builds a word from its fields. Each field is truncated to its width.
func NewWord(label, sdi, value, ssm uint32) Word {
	w := Word{
		label: uint8(label & LabelMask),
		sdi:   uint8(sdi & SDIMask),
		value: value & ValueMask,
		ssm:   uint8(ssm & SSMMask),
	}
	w.update()
	return w
}

// NewWordStrict is NewWord but rejects any field that does not fit its width.
func NewWordStrict(label, sdi, value, ssm uint32) (Word, error) {
	if err := checkRange(label, sdi, value, ssm); err != nil {
		return Word{}, err
	}
	return NewWord(label, sdi, value, ssm), nil
}

// Set replaces the whole word with raw, keeping its parity bit.
func (w *Word) Set(raw uint32) {
	w.raw = raw
	w.label = uint8((raw >> LabelShift) & LabelMask)
	w.sdi = uint8((raw >> SDIShift) & SDIMask)
	w.value = (raw >> ValueShift) & ValueMask
	w.ssm = uint8((raw >> SSMShift) & SSMMask)
	w.parity = uint8((raw >> ParityShift) & ParityMask)
}

// SetValue replaces the data field. Bits above bit 18 are dropped.
func (w *Word) SetValue(value uint32) {
	w.value = value & ValueMask
	w.update()
}

// SetBit sets or clears one bit of the data field. Index 1 is the least
// significant bit of the value. Indexes outside 1..19 leave the value as is.
func (w *Word) SetBit(index uint8, on bool) {
	if index >= 1 && index <= ValueBits {
		mask := uint32(1) << (index - 1)
		if on {
			w.value |= mask
		} else {
			w.value &^= mask
		}
	}
	w.update()
}

// SetSSM replaces the sign/status matrix with the low two bits of ssm.
func (w *Word) SetSSM(ssm uint8) {
	w.ssm = ssm & SSMMask
	w.update()
}

// SetSDI replaces the source/destination identifier with the low two bits of sdi.
func (w *Word) SetSDI(sdi uint8) {
	w.sdi = sdi & SDIMask
	w.update()
}

// SetLabel replaces the label.
func (w *Word) SetLabel(label uint8) {
	w.label = label
	w.update()
}

// GetRaw returns the 32-bit wire representation.
func (w *Word) GetRaw() uint32 {
	return w.raw
}

// GetLabel returns the 8-bit label
func (w *Word) GetLabel() uint8 {
	return w.label
}

// GetSDI returns the source/destination identifier
func (w *Word) GetSDI() uint8 {
	return w.sdi
}

// GetValue returns the 19-bit data field as an unsigned magnitude
func (w *Word) GetValue() uint32 {
	return w.value
}

// GetSSM returns the raw 2-bit sign/status matrix. Family types narrow it to
// their own enumeration.
func (w *Word) GetSSM() uint8 {
	return w.ssm
}

// GetParity returns the parity bit currently stored in the word
func (w *Word) GetParity() uint8 {
	return w.parity
}

// GetBit reports whether bit index (1-based from the LSB) of the data field is set.
func (w *Word) GetBit(index uint8) bool {
	if index < 1 || index > ValueBits {
		return false
	}
	return (w.value>>(index-1))&1 != 0
}

// ParityValid reports whether the stored parity bit matches the fields.
func (w *Word) ParityValid() bool {
	return w.parity == Parity(compose(w.label, w.sdi, w.value, w.ssm))
}

// String renders the word with the label in octal, the usual ARINC notation.
func (w Word) String() string {
	return fmt.Sprintf("label=%03o sdi=%d value=%d ssm=%02b parity=%d raw=%d",
		w.label, w.sdi, w.value, w.ssm, w.parity, w.raw)
}

// update recomputes parity from the fields and recombines the raw word.
func (w *Word) update() {
	c := compose(w.label, w.sdi, w.value, w.ssm)
	w.parity = Parity(c)
	w.raw = c | uint32(w.parity)<<ParityShift
}
