package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"go429/internal/arinc429"
)

var sampleTime = time.Date(2024, 3, 1, 12, 30, 45, 123000000, time.UTC)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestNewRecord(t *testing.T) {
	w := arinc429.Decode(4052501680)
	r := NewRecord("L:TEST", arinc429.FamilyBNR, &w, sampleTime)

	assert.Equal(t, "L:TEST", r.Name)
	assert.Equal(t, "bnr", r.Family)
	assert.Equal(t, uint32(4052501680), r.Raw)
	assert.Equal(t, "260", r.Label)
	assert.Equal(t, uint32(0b1000110001100010001), r.Value)
	assert.Equal(t, uint8(0b11), r.SSM)
	assert.Equal(t, "NormalOperation", r.Status)
	assert.True(t, r.ParityValid)
}

func TestFormatCSV(t *testing.T) {
	tests := []struct {
		name     string
		raw      uint32
		family   arinc429.Family
		expected string
	}{
		{
			name:     "Discrete sample",
			raw:      2441888944,
			family:   arinc429.FamilyDiscrete,
			expected: "A429,2024/03/01,12:30:45.123,L:TEST,2441888944,260,0,287505,00,NormalOperation,1",
		},
		{
			name:     "BCD minus",
			raw:      4052501680,
			family:   arinc429.FamilyBCD,
			expected: "A429,2024/03/01,12:30:45.123,L:TEST,4052501680,260,0,287505,11,MinusSouthWestLeftFromBelow,1",
		},
		{
			name:     "Parity error",
			raw:      294405296,
			family:   arinc429.FamilyBNR,
			expected: "A429,2024/03/01,12:30:45.123,L:TEST,294405296,260,0,287505,00,FailureWarning,0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := arinc429.Decode(tt.raw)
			assert.Equal(t, tt.expected, FormatCSV(NewRecord("L:TEST", tt.family, &w, sampleTime)))
		})
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf, quietLogger())

	w := arinc429.Decode(2441888944)
	require.NoError(t, writer.WriteWord("L:A", arinc429.FamilyDiscrete, &w, sampleTime))
	bad := arinc429.Decode(294405296)
	require.NoError(t, writer.WriteWord("L:B", arinc429.FamilyDiscrete, &bad, sampleTime))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "A429,"))
	assert.True(t, strings.HasSuffix(lines[1], ",0"))
	assert.Equal(t, uint64(2), writer.Lines())

	assert.Error(t, writer.WriteWord("L:C", arinc429.FamilyDiscrete, nil, sampleTime))
}

func TestWriterError(t *testing.T) {
	writer := NewWriter(brokenWriter{}, quietLogger())
	w := arinc429.Empty()

	err := writer.WriteWord("L:A", arinc429.FamilyBNR, &w, sampleTime)
	assert.ErrorContains(t, err, "disk full")
	assert.Equal(t, uint64(0), writer.Lines())
}

func TestWriteReport(t *testing.T) {
	w := arinc429.Decode(2441888944)
	records := []Record{NewRecord("", arinc429.FamilyBNR, &w, sampleTime)}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReport(&buf, FormatText, records))
		out := buf.String()
		assert.Contains(t, out, "LABEL")
		assert.Contains(t, out, "2441888944")
		assert.Contains(t, out, "FailureWarning")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReport(&buf, FormatJSON, records))

		var decoded []Record
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, uint32(2441888944), decoded[0].Raw)
		assert.Equal(t, "260", decoded[0].Label)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteReport(&buf, FormatYAML, records))

		var decoded []map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, "FailureWarning", decoded[0]["status"])
		assert.Equal(t, true, decoded[0]["parity_valid"])
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, WriteReport(io.Discard, "xml", records))
	})
}
