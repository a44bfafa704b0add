package dependencies

import (
	"fmt"

	"github.com/anxdpanic/addon-check/pkg/addon"
	"github.com/anxdpanic/addon-check/pkg/report"
	"github.com/anxdpanic/addon-check/pkg/version"
)

// CheckDependencies checks every import of a against branch b, in declaration order,
// followed by the extension point check. branchName selects the ignore and override tables.
func (c *Checker) CheckDependencies(a *addon.Addon, b Branch, branchName string) []report.Record {
	var records []report.Record
	ignored := c.tables.EffectiveIgnoreSet(branchName)

	for _, dep := range a.Dependencies() {
		if rec, ok := c.checkAvailability(dep, b, ignored); ok {
			records = append(records, rec)
		}
		if rec, ok := c.checkVersionOverride(dep, branchName); ok {
			records = append(records, rec)
		}
	}

	return append(records, c.CheckExtensions(a)...)
}

// checkAvailability yields at most one finding per import
func (c *Checker) checkAvailability(dep addon.Dependency, b Branch, ignored map[string]struct{}) (report.Record, bool) {
	id := dep.ID()
	if _, skip := ignored[id]; skip && !dep.Optional() {
		return report.Record{}, false
	}

	kind, lowerKind := "Required", "required"
	if dep.Optional() {
		kind, lowerKind = "Optional", "optional"
	}

	found := b.Find(id)
	if found == nil {
		return report.Record{
			Severity: severityFor(dep, report.Problem),
			Message:  fmt.Sprintf("%s dependency %s is not available in current repository", kind, id),
		}, true
	}

	minVersion, hasMin := dep.MinVersion()
	if !hasMin {
		return report.Record{
			Severity: severityFor(dep, report.Warning),
			Message: fmt.Sprintf("%s dependency %s does not require a minimum version, available: %s",
				kind, id, found.Version()),
		}, true
	}

	if found.Version().Less(minVersion) {
		return report.Record{
			Severity: severityFor(dep, report.Problem),
			Message: fmt.Sprintf("Version mismatch for %s dependency %s, required: %s, Available: %s",
				lowerKind, id, minVersion, found.Version()),
		}, true
	}

	return report.Record{}, false
}

// checkVersionOverride compares the declared minimum against the version advised for branchName
func (c *Checker) checkVersionOverride(dep addon.Dependency, branchName string) (report.Record, bool) {
	advised, known, ok := c.tables.VersionOverride(dep.ID(), branchName)
	if !known {
		return report.Record{}, false
	}
	if !ok {
		c.warnMisconfigured(dep.ID(), branchName)
		return report.Record{}, false
	}

	minVersion, hasMin := dep.MinVersion()
	if hasMin && version.Parse(advised).Equal(minVersion) {
		return report.Record{}, false
	}

	return report.Record{
		Severity: report.Warning,
		Message:  fmt.Sprintf("For %s it is advised to set %s version to %s", branchName, dep.ID(), advised),
	}, true
}

func severityFor(dep addon.Dependency, required report.Severity) report.Severity {
	if dep.Optional() {
		return report.Information
	}
	return required
}
