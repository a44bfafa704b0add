package reporter

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/anxdpanic/addon-check/pkg/report"
)

// GitHubName is the registry name of the GitHub Actions reporter
const GitHubName = "github"

var annotationCommands = map[report.Severity]string{
	report.Information: "notice",
	report.Warning:     "warning",
	report.Problem:     "error",
}

var (
	dataEscaper     = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)

// GitHub writes records as GitHub Actions workflow annotations
type GitHub struct {
	out io.Writer
	mu  sync.Mutex
}

// NewGitHub creates a GitHub Actions reporter
func NewGitHub(opts Options) *GitHub {
	return &GitHub{out: opts.Out}
}

// Name returns the reporter name
func (g *GitHub) Name() string { return GitHubName }

// Report writes one annotation per record
func (g *GitHub) Report(r *report.Report) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	title := "addon-check"
	if r.Name != "" {
		title += " " + r.Name
	}

	for _, rec := range r.Records() {
		_, err := fmt.Fprintf(g.out, "::%s title=%s::%s\n",
			annotationCommands[rec.Severity], propertyEscaper.Replace(title), dataEscaper.Replace(rec.Message))
		if err != nil {
			return err
		}
	}
	return nil
}

// Flush is a no-op
func (g *GitHub) Flush() error { return nil }
