package arinc429

// DiscreteWord is a word whose value field holds individual discrete bits.
type DiscreteWord struct {
	Word
}

// DecodeDiscrete decodes raw as a discrete word.
func DecodeDiscrete(raw uint32) DiscreteWord {
	return DiscreteWord{Word: Decode(raw)}
}

func (w *DiscreteWord) SetSSM(ssm DiscreteSSM) {
	w.Word.SetSSM(uint8(ssm))
}

func (w *DiscreteWord) GetSSM() DiscreteSSM {
	return DiscreteSSM(w.Word.GetSSM())
}

func (w *DiscreteWord) IsNormalOperation() bool { return w.GetSSM() == DiscreteNormalOperation }
func (w *DiscreteWord) IsNoComputedData() bool { return w.GetSSM() == DiscreteNoComputedData }
func (w *DiscreteWord) IsFunctionalTest() bool { return w.GetSSM() == DiscreteFunctionalTest }
func (w *DiscreteWord) IsFailureWarning() bool { return w.GetSSM() == DiscreteFailureWarning }

// NormalValue returns the value only when the word reports normal operation
// and its parity is correct.
func (w *DiscreteWord) NormalValue() (uint32, bool) {
	if !w.IsNormalOperation() || !w.ParityValid() {
		return 0, false
	}
	return w.GetValue(), true
}

// BNRWord is a word whose value field holds a binary magnitude.
type BNRWord struct {
	Word
}

// DecodeBNR decodes raw as a BNR word.
func DecodeBNR(raw uint32) BNRWord {
	return BNRWord{Word: Decode(raw)}
}

func (w *BNRWord) SetSSM(ssm BNRSSM) {
	w.Word.SetSSM(uint8(ssm))
}

func (w *BNRWord) GetSSM() BNRSSM {
	return BNRSSM(w.Word.GetSSM())
}

func (w *BNRWord) IsNormalOperation() bool { return w.GetSSM() == BNRNormalOperation }
func (w *BNRWord) IsNoComputedData() bool { return w.GetSSM() == BNRNoComputedData }
func (w *BNRWord) IsFunctionalTest() bool { return w.GetSSM() == BNRFunctionalTest }
func (w *BNRWord) IsFailureWarning() bool { return w.GetSSM() == BNRFailureWarning }

// NormalValue returns the value only when the word reports normal operation
// and its parity is correct.
func (w *BNRWord) NormalValue() (uint32, bool) {
	if !w.IsNormalOperation() || !w.ParityValid() {
		return 0, false
	}
	return w.GetValue(), true
}

// BCDWord is a word whose value field holds packed decimal digits.
type BCDWord struct {
	Word
}

// DecodeBCD decodes raw as a BCD word.
func DecodeBCD(raw uint32) BCDWord {
	return BCDWord{Word: Decode(raw)}
}

// NewBCDWord builds a BCD word from its fields, truncating each to its width.
func NewBCDWord(label, sdi, value uint32, ssm BCDSSM) BCDWord {
	return BCDWord{Word: NewWord(label, sdi, value, uint32(ssm))}
}

// NewBCDWordStrict is NewBCDWord but fails with ErrOutOfRange instead of
// truncating.
func NewBCDWordStrict(label, sdi, value uint32, ssm BCDSSM) (BCDWord, error) {
	w, err := NewWordStrict(label, sdi, value, uint32(ssm))
	if err != nil {
		return BCDWord{}, err
	}
	return BCDWord{Word: w}, nil
}

func (w *BCDWord) SetSSM(ssm BCDSSM) {
	w.Word.SetSSM(uint8(ssm))
}

func (w *BCDWord) GetSSM() BCDSSM {
	return BCDSSM(w.Word.GetSSM())
}
