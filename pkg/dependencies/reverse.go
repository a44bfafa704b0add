package dependencies

import (
	"fmt"
	"sort"
	"strings"

	"github.com/anxdpanic/addon-check/pkg/addon"
	"github.com/anxdpanic/addon-check/pkg/report"
)

// ReverseDependencies holds the ids of the add-ons importing a checked id.
// Both lists are sorted and disjoint.
type ReverseDependencies struct {
	// SameOrLater lists dependents found from the target branch onwards
	SameOrLater []string `json:"same_or_later"`
	// LowerBranches lists dependents found only in branches before the target
	LowerBranches []string `json:"lower_branches"`
}

// Empty reports whether nothing depends on the checked id
func (r ReverseDependencies) Empty() bool {
	return len(r.SameOrLater) == 0 && len(r.LowerBranches) == 0
}

// ResolveReverseDependencies walks idx in ascending branch order collecting the dependents of addonID.
//
// Branches before branchName feed LowerBranches. From branchName onwards dependents
// not already seen in a lower branch feed SameOrLater. The walk stops at the first
// later branch that publishes a different add-on under addonID than the one
// resolved so far.
func ResolveReverseDependencies(addonID, branchName string, idx BranchIndex) ReverseDependencies {
	lower := make(map[string]struct{})
	sameOrLater := make(map[string]struct{})

	reached := false
	var resolved *addon.Addon

	for _, branch := range idx.Branches() {
		if !reached && branch.Name() != branchName {
			for _, dependent := range branch.ReverseDependents(addonID) {
				lower[dependent.ID()] = struct{}{}
			}
			continue
		}
		reached = true

		found := branch.Find(addonID)
		if found != nil && resolved != nil && found != resolved {
			break
		}
		resolved = found

		for _, dependent := range branch.ReverseDependents(addonID) {
			if _, seen := lower[dependent.ID()]; seen {
				continue
			}
			sameOrLater[dependent.ID()] = struct{}{}
		}
	}

	return ReverseDependencies{
		SameOrLater:   sortedIDs(sameOrLater),
		LowerBranches: sortedIDs(lower),
	}
}

// CheckReverseDependencies reports who depends on addonID and flags unused library modules
func (c *Checker) CheckReverseDependencies(addonID, branchName string, idx BranchIndex) []report.Record {
	var records []report.Record
	rdeps := ResolveReverseDependencies(addonID, branchName, idx)

	if addon.IsLibraryModuleID(addonID) && rdeps.Empty() {
		records = append(records, report.Record{
			Severity: report.Warning,
			Message:  "This module isn't required by any add-on.",
		})
	}

	if len(rdeps.SameOrLater) > 0 {
		records = append(records, report.Record{
			Severity: report.Information,
			Message: fmt.Sprintf("Reverse dependencies: %s (%d)",
				strings.Join(rdeps.SameOrLater, ", "), len(rdeps.SameOrLater)),
		})
	}

	if len(rdeps.LowerBranches) > 0 {
		records = append(records, report.Record{
			Severity: report.Information,
			Message: fmt.Sprintf("Reverse dependencies (in lower branches): %s (%d)",
				strings.Join(rdeps.LowerBranches, ", "), len(rdeps.LowerBranches)),
		})
	}

	return records
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
