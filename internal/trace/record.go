package trace

import (
	"fmt"
	"strings"
	"time"

	"go429/internal/arinc429"
)

// MessageType starts every trace line
const MessageType = "A429"

// Record is one decoded word as it appears in traces and reports.
type Record struct {
	Time        time.Time `json:"time" yaml:"time"`
	Name        string    `json:"name,omitempty" yaml:"name,omitempty"`
	Family      string    `json:"family" yaml:"family"`
	Raw         uint32    `json:"raw" yaml:"raw"`
	Label       string    `json:"label" yaml:"label"`
	SDI         uint8     `json:"sdi" yaml:"sdi"`
	Value       uint32    `json:"value" yaml:"value"`
	SSM         uint8     `json:"ssm" yaml:"ssm"`
	Status      string    `json:"status" yaml:"status"`
	Parity      uint8     `json:"parity" yaml:"parity"`
	ParityValid bool      `json:"parity_valid" yaml:"parity_valid"`
}

// NewRecord describes w, read from the variable name at the given time,
// interpreting its SSM under family.
func NewRecord(name string, family arinc429.Family, w *arinc429.Word, at time.Time) Record {
	return Record{
		Time:        at,
		Name:        name,
		Family:      family.String(),
		Raw:         w.GetRaw(),
		Label:       fmt.Sprintf("%03o", w.GetLabel()),
		SDI:         w.GetSDI(),
		Value:       w.GetValue(),
		SSM:         w.GetSSM(),
		Status:      family.Status(w.GetSSM()),
		Parity:      w.GetParity(),
		ParityValid: w.ParityValid(),
	}
}

// FormatCSV renders r as
// A429,date,time,name,raw,label,sdi,value,ssm,status,parity_ok
func FormatCSV(r Record) string {
	parityOK := "0"
	if r.ParityValid {
		parityOK = "1"
	}

	fields := []string{
		MessageType,
		r.Time.Format("2006/01/02"),
		r.Time.Format("15:04:05.000"),
		r.Name,
		fmt.Sprintf("%d", r.Raw),
		r.Label,
		fmt.Sprintf("%d", r.SDI),
		fmt.Sprintf("%d", r.Value),
		fmt.Sprintf("%02b", r.SSM),
		r.Status,
		parityOK,
	}
	return strings.Join(fields, ",")
}
