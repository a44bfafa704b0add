package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anxdpanic/addon-check/pkg/report"
)

// JSONName is the registry name of the json reporter
const JSONName = "json"

// JSONDocument is the document written by the json reporter
type JSONDocument struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Summary     report.Summary `json:"summary"`
	Addons      []JSONAddon    `json:"addons"`
}

// JSONAddon is the report of one add-on
type JSONAddon struct {
	Name    string          `json:"name"`
	Summary report.Summary  `json:"summary"`
	Records []report.Record `json:"records"`
}

// JSON buffers reports and writes a single document on Flush
type JSON struct {
	out   io.Writer
	path  string
	runID string
	now   func() time.Time

	mu     sync.Mutex
	addons []JSONAddon
}

// NewJSON creates a json reporter
func NewJSON(opts Options) *JSON {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.New().String()
	}
	return &JSON{
		out:   opts.Out,
		path:  opts.JSONPath,
		runID: runID,
		now:   time.Now,
	}
}

// Name returns the reporter name
func (j *JSON) Name() string { return JSONName }

// RunID returns the run id written into the document
func (j *JSON) RunID() string { return j.runID }

// Report buffers r
func (j *JSON) Report(r *report.Report) error {
	records := r.Records()
	if records == nil {
		records = []report.Record{}
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.addons = append(j.addons, JSONAddon{
		Name:    r.Name,
		Summary: r.Summary(),
		Records: records,
	})
	return nil
}

// Flush writes the buffered reports and resets the buffer
func (j *JSON) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	doc := JSONDocument{
		RunID:       j.runID,
		GeneratedAt: j.now().UTC(),
		Summary:     report.Summary{},
		Addons:      j.addons,
	}
	if doc.Addons == nil {
		doc.Addons = []JSONAddon{}
	}
	for _, a := range j.addons {
		doc.Summary.Merge(a.Summary)
	}

	out := j.out
	if j.path != "" {
		f, err := os.Create(j.path)
		if err != nil {
			return fmt.Errorf("failed to create json report: %w", err)
		}
		defer f.Close()
		out = f
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to write json report: %w", err)
	}

	j.addons = nil
	return nil
}
