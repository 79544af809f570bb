package arinc429

import (
	"fmt"
	"strings"
)

// DiscreteSSM is the sign/status matrix of a discrete word.
type DiscreteSSM uint8

const (
	DiscreteNormalOperation DiscreteSSM = 0b00
	DiscreteNoComputedData  DiscreteSSM = 0b01
	DiscreteFunctionalTest  DiscreteSSM = 0b10
	DiscreteFailureWarning  DiscreteSSM = 0b11
)

func (s DiscreteSSM) String() string {
	switch s & SSMMask {
	case DiscreteNormalOperation:
		return "NormalOperation"
	case DiscreteNoComputedData:
		return "NoComputedData"
	case DiscreteFunctionalTest:
		return "FunctionalTest"
	default:
		return "FailureWarning"
	}
}

// BNRSSM is the sign/status matrix of a binary (numeric) word.
type BNRSSM uint8

const (
	BNRFailureWarning  BNRSSM = 0b00
	BNRNoComputedData  BNRSSM = 0b01
	BNRFunctionalTest  BNRSSM = 0b10
	BNRNormalOperation BNRSSM = 0b11
)

func (s BNRSSM) String() string {
	switch s & SSMMask {
	case BNRFailureWarning:
		return "FailureWarning"
	case BNRNoComputedData:
		return "NoComputedData"
	case BNRFunctionalTest:
		return "FunctionalTest"
	default:
		return "NormalOperation"
	}
}

// BCDSSM is the sign/status matrix of a binary-coded-decimal word. The two
// data states also carry the sign or direction of the value.
type BCDSSM uint8

const (
	BCDPlusNorthEastRightToAbove   BCDSSM = 0b00
	BCDNoComputedData              BCDSSM = 0b01
	BCDFunctionalTest              BCDSSM = 0b10
	BCDMinusSouthWestLeftFromBelow BCDSSM = 0b11
)

func (s BCDSSM) String() string {
	switch s & SSMMask {
	case BCDPlusNorthEastRightToAbove:
		return "PlusNorthEastRightToAbove"
	case BCDNoComputedData:
		return "NoComputedData"
	case BCDFunctionalTest:
		return "FunctionalTest"
	default:
		return "MinusSouthWestLeftFromBelow"
	}
}

// Family identifies how the SSM and value fields of a word are interpreted.
type Family int

const (
	FamilyDiscrete Family = iota
	FamilyBNR
	FamilyBCD
)

func (f Family) String() string {
	switch f {
	case FamilyDiscrete:
		return "discrete"
	case FamilyBNR:
		return "bnr"
	case FamilyBCD:
		return "bcd"
	default:
		return fmt.Sprintf("family(%d)", int(f))
	}
}

// ParseFamily accepts "discrete", "bnr" or "bcd", case insensitive.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "discrete", "dis":
		return FamilyDiscrete, nil
	case "bnr":
		return FamilyBNR, nil
	case "bcd":
		return FamilyBCD, nil
	default:
		return 0, Error.New("unknown word family %q", s)
	}
}

// Status names the meaning of a raw 2-bit SSM under this family.
func (f Family) Status(ssm uint8) string {
	switch f {
	case FamilyBNR:
		return BNRSSM(ssm & SSMMask).String()
	case FamilyBCD:
		return BCDSSM(ssm & SSMMask).String()
	default:
		return DiscreteSSM(ssm & SSMMask).String()
	}
}

// Normal reports whether ssm marks valid data under this family. For BCD
// words both sign states carry data.
func (f Family) Normal(ssm uint8) bool {
	ssm &= SSMMask
	switch f {
	case FamilyBNR:
		return BNRSSM(ssm) == BNRNormalOperation
	case FamilyBCD:
		return BCDSSM(ssm) == BCDPlusNorthEastRightToAbove || BCDSSM(ssm) == BCDMinusSouthWestLeftFromBelow
	default:
		return DiscreteSSM(ssm) == DiscreteNormalOperation
	}
}
