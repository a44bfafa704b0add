package reporter

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/anxdpanic/addon-check/pkg/report"
)

// ErrUnknownReporter is returned when enabling a reporter that is not registered
var ErrUnknownReporter = errors.New("unknown reporter")

// Reporter presents the report of one add-on. Report is called once per add-on,
// Flush once at the end of a run.
type Reporter interface {
	Name() string
	Report(r *report.Report) error
	Flush() error
}

// Options are handed to every reporter constructor
type Options struct {
	// Out receives console, github and, without JSONPath, json output
	Out io.Writer
	// JSONPath is the file the json reporter writes to
	JSONPath string
	// MinSeverity hides console records below this level
	MinSeverity report.Severity
	// RunID identifies the run in json output. Generated when empty.
	RunID string
}

// Factory describes a reporter plugin
type Factory struct {
	Name    string
	Enabled bool
	New     func(Options) Reporter
}

// DefaultFactories returns the built-in reporters in presentation order
func DefaultFactories() []Factory {
	return []Factory{
		{Name: ConsoleName, Enabled: true, New: func(opts Options) Reporter { return NewConsole(opts) }},
		{Name: ArrayName, New: func(opts Options) Reporter { return NewArray() }},
		{Name: JSONName, New: func(opts Options) Reporter { return NewJSON(opts) }},
		{Name: GitHubName, New: func(opts Options) Reporter { return NewGitHub(opts) }},
	}
}

// Registry holds instantiated reporters in registration order
type Registry struct {
	names     []string
	reporters []Reporter
	byName    map[string]Reporter
	enabled   map[string]bool
}

// NewRegistry instantiates every factory in order
func NewRegistry(opts Options, factories ...Factory) *Registry {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	r := &Registry{
		byName:  make(map[string]Reporter, len(factories)),
		enabled: make(map[string]bool, len(factories)),
	}
	for _, f := range factories {
		if _, exists := r.byName[f.Name]; exists {
			continue
		}
		rep := f.New(opts)
		r.names = append(r.names, f.Name)
		r.reporters = append(r.reporters, rep)
		r.byName[f.Name] = rep
		r.enabled[f.Name] = f.Enabled
	}
	return r
}

// Enable enables exactly the listed reporters and disables the rest
func (r *Registry) Enable(names ...string) error {
	for _, name := range names {
		if _, ok := r.byName[name]; !ok {
			return fmt.Errorf("%w: %s (available: %v)", ErrUnknownReporter, name, r.Names())
		}
	}

	for name := range r.enabled {
		r.enabled[name] = false
	}
	for _, name := range names {
		r.enabled[name] = true
	}
	return nil
}

// Enabled returns the enabled reporters in registration order
func (r *Registry) Enabled() []Reporter {
	var enabled []Reporter
	for i, rep := range r.reporters {
		if r.enabled[r.names[i]] {
			enabled = append(enabled, rep)
		}
	}
	return enabled
}

// Get returns a registered reporter by name
func (r *Registry) Get(name string) (Reporter, bool) {
	rep, ok := r.byName[name]
	return rep, ok
}

// Names returns every registered name in registration order
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Report hands rep to every enabled reporter
func (r *Registry) Report(rep *report.Report) error {
	for _, reporter := range r.Enabled() {
		if err := reporter.Report(rep); err != nil {
			return fmt.Errorf("reporter %s: %w", reporter.Name(), err)
		}
	}
	return nil
}

// Flush flushes every enabled reporter and joins their errors
func (r *Registry) Flush() error {
	var errs []error
	for _, reporter := range r.Enabled() {
		if err := reporter.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("reporter %s: %w", reporter.Name(), err))
		}
	}
	return errors.Join(errs...)
}
