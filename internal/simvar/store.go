package simvar

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/zeebo/errs"
)

// Error is the error class for this package.
var Error = errs.Class("simvar")

// ErrInvalidValue is returned when a written value is not a raw 32-bit word.
var ErrInvalidValue = Error.New("invalid raw word")

// Store is a named-variable store holding raw 32-bit words, such as the
// simulator's local variables.
type Store interface {
	ReadRaw(name string) (uint32, error)
	WriteRaw(name string, text string) error
}

// MemoryStore is an in-process Store. Variables hold float64 values the way
// simulator variables do; unset variables read as zero.
type MemoryStore struct {
	vars  map[string]float64
	mutex sync.RWMutex
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vars: make(map[string]float64),
	}
}

// ReadRaw returns the variable truncated to a 32-bit word.
func (s *MemoryStore) ReadRaw(name string) (uint32, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return toRaw(s.vars[name]), nil
}

// WriteRaw parses text as a number and stores it.
func (s *MemoryStore) WriteRaw(name string, text string) error {
	v, err := ParseRaw(text)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.vars[name] = float64(v)
	return nil
}

// Names returns the sorted names of all variables that have been written.
func (s *MemoryStore) Names() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseRaw parses the text form of a raw word. Integer and floating point
// forms are accepted as long as the value is a whole number in 0..2^32-1.
func ParseRaw(text string) (uint32, error) {
	text = strings.TrimSpace(text)
	if u, err := strconv.ParseUint(text, 10, 32); err == nil {
		return uint32(u), nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > math.MaxUint32 || f != math.Trunc(f) {
		return 0, fmt.Errorf("%q: %w", text, ErrInvalidValue)
	}
	return uint32(f), nil
}

func toRaw(v float64) uint32 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

func (s *MemoryStore) snapshot() map[string]uint32 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make(map[string]uint32, len(s.vars))
	for name, v := range s.vars {
		out[name] = toRaw(v)
	}
	return out
}

func (s *MemoryStore) replace(vars map[string]float64) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.vars = vars
}
