package dependencies

import (
	"fmt"

	"github.com/anxdpanic/addon-check/pkg/addon"
	"github.com/anxdpanic/addon-check/pkg/report"
)

// CheckExtensions reports extension points whose required dependency a does not import
func (c *Checker) CheckExtensions(a *addon.Addon) []report.Record {
	var records []report.Record
	deps := a.DependencyIDs()

	for _, point := range a.ExtensionPoints() {
		required, ok := c.tables.RequiredDependency(point)
		if !ok {
			continue
		}
		if _, declared := deps[required]; declared {
			continue
		}
		records = append(records, report.Record{
			Severity: report.Problem,
			Message:  fmt.Sprintf("%s dependency is required for %s extensions", required, point),
		})
	}

	return records
}
