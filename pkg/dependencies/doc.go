// Package dependencies validates the dependencies an add-on declares against a
// branch repository and analyses who depends on it across branches.
//
// # Overview
//
// The package is the core of addon-check. It consumes add-on summaries from
// pkg/addon and read-only branch views, and produces report.Record findings.
// It never performs I/O, never mutates its inputs and never fails: data
// shortfalls are findings, not errors.
//
// # Checks
//
// Forward check: every declared import is looked up in the target branch.
// Missing imports, imports without a minimum version and imports whose
// available version is below the declared minimum are reported, with
// optional imports downgraded to INFORMATION. Dependencies with a per-branch
// advised version (xbmc.python) are compared against that advice.
//
// Extension check: extension points that need a runtime dependency
// (xbmc.gui.skin needs xbmc.gui) must import it.
//
// Reverse check: branches are walked in release order collecting the add-ons
// that import the checked id, split into lower branches and the target branch
// onwards. Library modules (script.module.*) nobody imports are flagged.
//
// # Usage Example
//
//	checker := dependencies.NewChecker(policy.Default(), log)
//
//	records := checker.CheckDependencies(a, repo, "leia")
//	records = append(records, checker.CheckReverseDependencies(a.ID(), "leia", index)...)
//	for _, rec := range records {
//		fmt.Println(rec)
//	}
//
// Or push everything for one add-on into a report:
//
//	rep := report.New(a.ID())
//	if err := checker.CheckAll(a, "leia", index, rep); err != nil {
//		return err
//	}
//
// # Concurrency
//
// A Checker is safe for concurrent use. Give every add-on its own sink.
package dependencies
