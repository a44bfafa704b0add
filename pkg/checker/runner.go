package checker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/anxdpanic/addon-check/pkg/addon"
	"github.com/anxdpanic/addon-check/pkg/dependencies"
	"github.com/anxdpanic/addon-check/pkg/observability"
	"github.com/anxdpanic/addon-check/pkg/report"
	"github.com/anxdpanic/addon-check/pkg/reporter"
)

// ErrNoPaths is returned when a run is requested without any add-on
var ErrNoPaths = errors.New("no add-ons to check")

// Metrics receives per add-on check measurements
type Metrics interface {
	RecordCheck(branch string, duration time.Duration, summary report.Summary)
}

// Options configures a Runner
type Options struct {
	Checker  *dependencies.Checker
	Index    dependencies.BranchIndex
	Registry *reporter.Registry
	Metrics  Metrics
	Logger   logrus.FieldLogger
	Workers  int
}

// Runner checks many add-ons in parallel and hands their reports to the reporters
type Runner struct {
	checker  *dependencies.Checker
	index    dependencies.BranchIndex
	registry *reporter.Registry
	metrics  Metrics
	log      logrus.FieldLogger
	workers  int
}

// Request names the add-ons to check and the branch to check them against
type Request struct {
	// Paths are add-on directories or addon.xml files
	Paths  []string
	Branch string
}

// Result is the outcome of one run
type Result struct {
	RunID   string
	Branch  string
	Reports []*report.Report
	Summary report.Summary
}

// Failed reports whether any record reached threshold
func (r *Result) Failed(threshold report.Severity) bool {
	for _, rep := range r.Reports {
		if sev, ok := rep.Highest(); ok && sev >= threshold {
			return true
		}
	}
	return false
}

// NewRunner creates a runner. Checker and Index are required.
func NewRunner(opts Options) *Runner {
	if opts.Checker == nil {
		opts.Checker = dependencies.NewChecker(nil, opts.Logger)
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	return &Runner{
		checker:  opts.Checker,
		index:    opts.Index,
		registry: opts.Registry,
		metrics:  opts.Metrics,
		log:      opts.Logger,
		workers:  opts.Workers,
	}
}

// Run checks every add-on of req against req.Branch.
// Reports are delivered to the registry in the order of req.Paths, then the registry is flushed.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if len(req.Paths) == 0 {
		return nil, ErrNoPaths
	}
	if r.index == nil || dependencies.FindBranch(r.index, req.Branch) == nil {
		return nil, fmt.Errorf("%w: %s", dependencies.ErrBranchNotFound, req.Branch)
	}

	result := &Result{
		RunID:   uuid.New().String(),
		Branch:  req.Branch,
		Reports: make([]*report.Report, len(req.Paths)),
		Summary: report.Summary{},
	}
	log := r.log.WithFields(logrus.Fields{"run_id": result.RunID, "branch": req.Branch})
	log.Debugf("Checking %d add-ons with %d workers", len(req.Paths), r.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, path := range req.Paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result.Reports[i] = r.checkPath(path, req.Branch, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, rep := range result.Reports {
		result.Summary.Merge(rep.Summary())
		if r.registry == nil {
			continue
		}
		if err := r.registry.Report(rep); err != nil {
			return result, err
		}
	}
	if r.registry != nil {
		if err := r.registry.Flush(); err != nil {
			return result, err
		}
	}

	log.WithField("findings", result.Summary.Total()).Info("Check finished")
	return result, nil
}

// CheckAddon checks an already parsed add-on against branch
func (r *Runner) CheckAddon(a *addon.Addon, branch string) (*report.Report, error) {
	rep := report.New(a.ID())
	start := time.Now()
	if err := r.checker.CheckAll(a, branch, r.index, rep); err != nil {
		return nil, err
	}
	r.record(branch, time.Since(start), rep)
	return rep, nil
}

func (r *Runner) checkPath(path, branch string, log logrus.FieldLogger) (rep *report.Report) {
	start := time.Now()

	a, err := addon.Load(path)
	if err != nil {
		log.WithError(err).Warnf("Could not load %s", path)
		rep = report.New(path)
		rep.Add(report.Record{Severity: report.Problem, Message: fmt.Sprintf("Could not load add-on: %v", err)})
		r.record(branch, time.Since(start), rep)
		return rep
	}

	rep = report.New(a.ID())
	defer func() {
		if err := observability.MustRecover(recover()); err != nil {
			log.WithError(err).Errorf("Check of %s aborted", a.ID())
			rep.Add(report.Record{Severity: report.Problem, Message: fmt.Sprintf("Check aborted: %v", err)})
		}
		r.record(branch, time.Since(start), rep)
	}()

	if err := r.checker.CheckAll(a, branch, r.index, rep); err != nil {
		log.WithError(err).Errorf("Could not check %s", a.ID())
		rep.Add(report.Record{Severity: report.Problem, Message: fmt.Sprintf("Check failed: %v", err)})
	}
	return rep
}

func (r *Runner) record(branch string, duration time.Duration, rep *report.Report) {
	if r.metrics != nil {
		r.metrics.RecordCheck(branch, duration, rep.Summary())
	}
}
