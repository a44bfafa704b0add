package report

import (
	"fmt"
	"strings"
	"sync"
)

// Severity indicates how serious a finding is
type Severity int

const (
	Information Severity = iota
	Warning
	Problem
)

var severityNames = map[Severity]string{
	Information: "INFORMATION",
	Warning:     "WARNING",
	Problem:     "PROBLEM",
}

// Severities lists every level from least to most severe
func Severities() []Severity {
	return []Severity{Information, Warning, Problem}
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// MarshalText encodes the severity by name
func (s Severity) MarshalText() ([]byte, error) {
	if _, ok := severityNames[s]; !ok {
		return nil, fmt.Errorf("unknown severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name, see ParseSeverity
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity parses a severity name as used in configuration and flags
func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "information", "info":
		return Information, nil
	case "warning", "warn":
		return Warning, nil
	case "problem", "error":
		return Problem, nil
	default:
		return Information, fmt.Errorf("unknown severity %q", raw)
	}
}

// Record is a single finding
type Record struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (r Record) String() string {
	return r.Severity.String() + ": " + r.Message
}

// Sink receives findings
type Sink interface {
	Add(r Record)
}

// Summary counts records per severity
type Summary map[Severity]int

// Total returns the number of records counted
func (s Summary) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// Merge adds the counts of other into s
func (s Summary) Merge(other Summary) {
	for sev, n := range other {
		s[sev] += n
	}
}

// Report accumulates the findings for one add-on. Safe for concurrent use.
type Report struct {
	Name string

	mu      sync.Mutex
	records []Record
}

// New creates an empty report
func New(name string) *Report {
	return &Report{Name: name}
}

// Add appends a record
func (r *Report) Add(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

// AddAll appends records in order
func (r *Report) AddAll(recs []Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, recs...)
}

// Records returns a copy of the records in insertion order
func (r *Report) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Record(nil), r.records...)
}

// Len returns the number of records
func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Summary returns the number of records per severity
func (r *Report) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := make(Summary, len(severityNames))
	for _, rec := range r.records {
		summary[rec.Severity]++
	}
	return summary
}

// Highest returns the most severe level recorded. ok is false for an empty report.
func (r *Report) Highest() (sev Severity, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if !ok || rec.Severity > sev {
			sev = rec.Severity
			ok = true
		}
	}
	return sev, ok
}
