package trace

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"go429/internal/arinc429"
)

// Writer writes one CSV trace line per sampled word. It is not safe for
// concurrent use.
type Writer struct {
	out    io.Writer
	logger *logrus.Logger
	lines  uint64
}

// NewWriter creates a trace writer over out
func NewWriter(out io.Writer, logger *logrus.Logger) *Writer {
	return &Writer{
		out:    out,
		logger: logger,
	}
}

// WriteWord traces w read from name at the given time.
func (w *Writer) WriteWord(name string, family arinc429.Family, word *arinc429.Word, at time.Time) error {
	if word == nil {
		return fmt.Errorf("word cannot be nil")
	}
	return w.WriteRecord(NewRecord(name, family, word, at))
}

// WriteRecord writes r as a CSV line.
func (w *Writer) WriteRecord(r Record) error {
	line := FormatCSV(r) + "\n"
	if _, err := io.WriteString(w.out, line); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}
	w.lines++

	if !r.ParityValid {
		w.logger.WithFields(logrus.Fields{
			"name": r.Name,
			"raw":  r.Raw,
		}).Warn("Traced word with parity error")
	}

	return nil
}

// Lines returns how many lines have been written
func (w *Writer) Lines() uint64 {
	return w.lines
}
