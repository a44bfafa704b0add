// Package checker runs the dependency checks for many add-ons at once.
//
// A Runner loads each add-on from disk, checks it against one branch of a
// repository index and forwards the per add-on reports to the enabled
// reporters in input order. Add-ons that cannot be loaded produce a PROBLEM
// record instead of aborting the run.
//
//	runner := checker.NewRunner(checker.Options{
//		Checker:  dependencies.NewChecker(policy.Default(), log),
//		Index:    index,
//		Registry: registry,
//		Workers:  4,
//	})
//	result, err := runner.Run(ctx, checker.Request{Paths: paths, Branch: "matrix"})
//	if err != nil {
//		return err
//	}
//	if result.Failed(report.Problem) {
//		os.Exit(1)
//	}
package checker
