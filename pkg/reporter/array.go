package reporter

import (
	"sync"

	"github.com/anxdpanic/addon-check/pkg/report"
)

// ArrayName is the registry name of the array reporter
const ArrayName = "array"

// Array keeps every reported record in memory
type Array struct {
	mu      sync.Mutex
	records []report.Record
}

// NewArray creates an array reporter
func NewArray() *Array {
	return &Array{}
}

// Name returns the reporter name
func (a *Array) Name() string { return ArrayName }

// Report appends the records of r
func (a *Array) Report(r *report.Report) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, r.Records()...)
	return nil
}

// Flush is a no-op
func (a *Array) Flush() error { return nil }

// Records returns every record reported so far
func (a *Array) Records() []report.Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]report.Record(nil), a.records...)
}
