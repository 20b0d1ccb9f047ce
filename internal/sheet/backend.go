package sheet

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrWorksheetNotFound is returned by a Backend asked for a worksheet it does not hold.
var ErrWorksheetNotFound = errors.New("sheet: worksheet not found")

// Backend is the worksheet-level I/O of one workbook. Values returns every
// non-trailing row including the header; Update overwrites the whole worksheet.
type Backend interface {
	Worksheets(ctx context.Context) ([]string, error)
	AddWorksheet(ctx context.Context, name string) error
	Values(ctx context.Context, name string) ([][]string, error)
	Update(ctx context.Context, name string, values [][]string) error
}

// MemoryBackend keeps worksheets in memory. Fail injects an error for an
// operation ("worksheets", "add", "values", "update") on a worksheet ("" for any).
type MemoryBackend struct {
	mu      sync.Mutex
	sheets  map[string][][]string
	order   []string
	fail    map[string]error
	Reads   map[string]int
	Updates map[string]int
}

// NewMemoryBackend returns an empty in-memory workbook.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		sheets:  map[string][][]string{},
		fail:    map[string]error{},
		Reads:   map[string]int{},
		Updates: map[string]int{},
	}
}

// Fail makes every later op on name return err. A nil err clears it.
func (m *MemoryBackend) Fail(op, name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := op + "/" + name
	if err == nil {
		delete(m.fail, key)
		return
	}
	m.fail[key] = err
}

func (m *MemoryBackend) failure(op, name string) error {
	if err, ok := m.fail[op+"/"+name]; ok {
		return err
	}
	if err, ok := m.fail[op+"/"]; ok {
		return err
	}
	return nil
}

// Set replaces a worksheet's raw values, creating it if needed.
func (m *MemoryBackend) Set(name string, values [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[name]; !ok {
		m.order = append(m.order, name)
	}
	m.sheets[name] = copyValues(values)
}

// Raw returns a copy of a worksheet's values.
func (m *MemoryBackend) Raw(name string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyValues(m.sheets[name])
}

func (m *MemoryBackend) Worksheets(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("worksheets", ""); err != nil {
		return nil, err
	}
	return append([]string(nil), m.order...), nil
}

func (m *MemoryBackend) AddWorksheet(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("add", name); err != nil {
		return err
	}
	if _, ok := m.sheets[name]; ok {
		return fmt.Errorf("sheet: worksheet %q already exists", name)
	}
	m.sheets[name] = nil
	m.order = append(m.order, name)
	return nil
}

func (m *MemoryBackend) Values(_ context.Context, name string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("values", name); err != nil {
		return nil, err
	}
	v, ok := m.sheets[name]
	if !ok {
		return nil, ErrWorksheetNotFound
	}
	m.Reads[name]++
	return copyValues(v), nil
}

func (m *MemoryBackend) Update(_ context.Context, name string, values [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("update", name); err != nil {
		return err
	}
	if _, ok := m.sheets[name]; !ok {
		return ErrWorksheetNotFound
	}
	m.sheets[name] = copyValues(values)
	m.Updates[name]++
	return nil
}

func copyValues(in [][]string) [][]string {
	if in == nil {
		return nil
	}
	out := make([][]string, len(in))
	for i, r := range in {
		out[i] = append([]string(nil), r...)
	}
	return out
}
