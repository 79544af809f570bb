package simvar

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"go429/internal/arinc429"
)

// Bridge moves ARINC 429 words between a Store and the codec. Words are read
// verbatim, parity bit included, and written back as decimal text.
type Bridge struct {
	store  Store
	logger *logrus.Logger
}

// NewBridge creates a bridge over store
func NewBridge(store Store, logger *logrus.Logger) *Bridge {
	return &Bridge{
		store:  store,
		logger: logger,
	}
}

// Read decodes the named variable.
func (b *Bridge) Read(name string) (arinc429.Word, error) {
	raw, err := b.store.ReadRaw(name)
	if err != nil {
		return arinc429.Word{}, fmt.Errorf("failed to read %s: %w", name, err)
	}

	w := arinc429.Decode(raw)
	if !w.ParityValid() {
		b.logger.WithFields(logrus.Fields{
			"name": name,
			"raw":  raw,
		}).Debug("Parity error on read")
	}

	return w, nil
}

// Write stores the raw form of w under name.
func (b *Bridge) Write(name string, w *arinc429.Word) error {
	text := strconv.FormatUint(uint64(w.GetRaw()), 10)
	if err := b.store.WriteRaw(name, text); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	b.logger.WithFields(logrus.Fields{
		"name":  name,
		"raw":   text,
		"label": fmt.Sprintf("%03o", w.GetLabel()),
	}).Debug("Wrote word")

	return nil
}
