// Package reporter presents per-add-on reports.
//
// Reporters are registered explicitly through Factory values; there is no
// discovery at runtime. A Registry instantiates every factory once, in order,
// and forwards each report to the enabled reporters.
//
// Built-in reporters:
//
//   - console: colored text, one line per record
//   - array: keeps records in memory, used by tests and the HTTP API
//   - json: a single JSON document written on Flush
//   - github: GitHub Actions workflow annotations
//
// # Usage Example
//
//	registry := reporter.NewRegistry(reporter.Options{Out: os.Stdout}, reporter.DefaultFactories()...)
//	if err := registry.Enable("console", "json"); err != nil {
//		return err
//	}
//	registry.Report(rep)
//	registry.Flush()
package reporter
