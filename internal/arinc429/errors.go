package arinc429

import (
	"fmt"

	"github.com/zeebo/errs"
)

// Error is the error class for this package.
var Error = errs.Class("arinc429")

// ErrOutOfRange is returned by the strict constructors when a field does not
// fit its declared width.
var ErrOutOfRange = Error.New("field out of range")

func checkRange(label, sdi, value, ssm uint32) error {
	fields := []struct {
		name string
		v    uint32
		mask uint32
	}{
		{"label", label, LabelMask},
		{"sdi", sdi, SDIMask},
		{"value", value, ValueMask},
		{"ssm", ssm, SSMMask},
	}
	for _, f := range fields {
		if f.v&^f.mask != 0 {
			return fmt.Errorf("%s %d exceeds %#x: %w", f.name, f.v, f.mask, ErrOutOfRange)
		}
	}
	return nil
}
