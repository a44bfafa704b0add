package dependencies

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/anxdpanic/addon-check/pkg/addon"
	"github.com/anxdpanic/addon-check/pkg/policy"
	"github.com/anxdpanic/addon-check/pkg/report"
)

// ErrBranchNotFound is returned by CheckAll when the target branch is not in the index
var ErrBranchNotFound = errors.New("branch not found in index")

// Branch is a read-only view of the add-ons published on one branch
type Branch interface {
	Name() string
	Find(id string) *addon.Addon
	ReverseDependents(id string) []*addon.Addon
}

// BranchIndex lists branches in ascending release order
type BranchIndex interface {
	Branches() []Branch
}

// Checker runs the dependency checks against a set of policy tables
type Checker struct {
	tables *policy.Tables
	log    logrus.FieldLogger

	// dependency@branch pairs already reported as misconfigured
	misconfigured sync.Map
}

// NewChecker creates a new dependency checker
func NewChecker(tables *policy.Tables, log logrus.FieldLogger) *Checker {
	if tables == nil {
		tables = policy.Default()
	}
	if log == nil {
		log = logrus.New()
	}

	return &Checker{
		tables: tables,
		log:    log,
	}
}

// Tables returns the policy tables the checker consults
func (c *Checker) Tables() *policy.Tables {
	return c.tables
}

// CheckAll runs the forward and reverse checks for a against branchName and adds every finding to sink
func (c *Checker) CheckAll(a *addon.Addon, branchName string, idx BranchIndex, sink report.Sink) error {
	target := FindBranch(idx, branchName)
	if target == nil {
		return fmt.Errorf("%w: %s", ErrBranchNotFound, branchName)
	}

	for _, rec := range c.CheckDependencies(a, target, branchName) {
		sink.Add(rec)
	}
	for _, rec := range c.CheckReverseDependencies(a.ID(), branchName, idx) {
		sink.Add(rec)
	}
	return nil
}

// FindBranch returns the branch of idx named name, or nil
func FindBranch(idx BranchIndex, name string) Branch {
	for _, b := range idx.Branches() {
		if b.Name() == name {
			return b
		}
	}
	return nil
}

func (c *Checker) warnMisconfigured(depID, branch string) {
	if _, seen := c.misconfigured.LoadOrStore(depID+"@"+branch, struct{}{}); seen {
		return
	}
	c.log.WithFields(logrus.Fields{
		"dependency": depID,
		"branch":     branch,
	}).Warn("Misconfiguration in version override table: no entry for branch")
}
