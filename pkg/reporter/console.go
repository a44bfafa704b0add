package reporter

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/anxdpanic/addon-check/pkg/report"
)

// ConsoleName is the registry name of the console reporter
const ConsoleName = "console"

// Console prints records colored by severity.
// Colors are dropped automatically when Out is not a terminal.
type Console struct {
	out         io.Writer
	minSeverity report.Severity
	header      lipgloss.Style
	styles      map[report.Severity]lipgloss.Style
	mu          sync.Mutex
}

// NewConsole creates a console reporter
func NewConsole(opts Options) *Console {
	renderer := lipgloss.NewRenderer(opts.Out)

	return &Console{
		out:         opts.Out,
		minSeverity: opts.MinSeverity,
		header:      renderer.NewStyle().Bold(true),
		styles: map[report.Severity]lipgloss.Style{
			report.Information: renderer.NewStyle().Foreground(lipgloss.Color("4")),
			report.Warning:     renderer.NewStyle().Foreground(lipgloss.Color("5")),
			report.Problem:     renderer.NewStyle().Foreground(lipgloss.Color("1")),
		},
	}
}

// Name returns the reporter name
func (c *Console) Name() string { return ConsoleName }

// Report prints the records of r
func (c *Console) Report(r *report.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.Name != "" {
		if _, err := fmt.Fprintln(c.out, c.header.Render("Checking "+r.Name)); err != nil {
			return err
		}
	}

	for _, rec := range r.Records() {
		if rec.Severity < c.minSeverity {
			continue
		}
		if _, err := fmt.Fprintln(c.out, c.styles[rec.Severity].Render(rec.String())); err != nil {
			return err
		}
	}
	return nil
}

// Flush is a no-op, records are printed as they are reported
func (c *Console) Flush() error { return nil }
