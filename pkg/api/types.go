package api

import (
	"github.com/anxdpanic/addon-check/pkg/addon"
	"github.com/anxdpanic/addon-check/pkg/report"
)

// BranchSummary describes one branch repository
type BranchSummary struct {
	Name   string `json:"name"`
	Addons int    `json:"addons"`
	Known  bool   `json:"known"`
}

// DependencyInfo describes one declared import
type DependencyInfo struct {
	ID         string `json:"id"`
	MinVersion string `json:"min_version,omitempty"`
	Optional   bool   `json:"optional"`
}

// AddonInfo describes an add-on published on a branch
type AddonInfo struct {
	Branch          string           `json:"branch"`
	ID              string           `json:"id"`
	Version         string           `json:"version"`
	LibraryModule   bool             `json:"library_module"`
	Dependencies    []DependencyInfo `json:"dependencies"`
	ExtensionPoints []string         `json:"extension_points"`
}

// CheckResponse is the outcome of POST /v1/branches/{branch}/check
type CheckResponse struct {
	Addon   string           `json:"addon"`
	Branch  string           `json:"branch"`
	Records []report.Record  `json:"records"`
	Summary report.Summary   `json:"summary"`
	Highest *report.Severity `json:"highest,omitempty"`
}

func newAddonInfo(branch string, a *addon.Addon) AddonInfo {
	info := AddonInfo{
		Branch:          branch,
		ID:              a.ID(),
		Version:         a.Version().String(),
		LibraryModule:   a.IsLibraryModule(),
		Dependencies:    []DependencyInfo{},
		ExtensionPoints: a.ExtensionPoints(),
	}
	if info.ExtensionPoints == nil {
		info.ExtensionPoints = []string{}
	}

	for _, dep := range a.Dependencies() {
		d := DependencyInfo{ID: dep.ID(), Optional: dep.Optional()}
		if minVersion, ok := dep.MinVersion(); ok {
			d.MinVersion = minVersion.String()
		}
		info.Dependencies = append(info.Dependencies, d)
	}
	return info
}
