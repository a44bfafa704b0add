package addon

import (
	"strings"

	"github.com/anxdpanic/addon-check/pkg/version"
)

// LibraryModulePrefix marks reusable library add-ons that exist only to be imported
const LibraryModulePrefix = "script.module."

// Dependency is one <import> declared under <requires> in addon.xml
type Dependency struct {
	id         string
	minVersion *version.Version
	optional   bool
}

// NewDependency builds a dependency edge. An empty rawVersion means no minimum version.
func NewDependency(id, rawVersion string, optional bool) Dependency {
	d := Dependency{
		id:       strings.TrimSpace(id),
		optional: optional,
	}
	if strings.TrimSpace(rawVersion) != "" {
		v := version.Parse(rawVersion)
		d.minVersion = &v
	}
	return d
}

// ID returns the id of the add-on being depended on
func (d Dependency) ID() string { return d.id }

// MinVersion returns the minimum version and whether one was declared
func (d Dependency) MinVersion() (version.Version, bool) {
	if d.minVersion == nil {
		return version.Version{}, false
	}
	return *d.minVersion, true
}

// Optional reports whether the dependency was declared optional="true"
func (d Dependency) Optional() bool { return d.optional }

// Addon is the read-only summary of one add-on the checks operate on
type Addon struct {
	id              string
	version         version.Version
	dependencies    []Dependency
	extensionPoints []string
}

// NewAddon creates an add-on summary. Inputs are copied.
func NewAddon(id, rawVersion string, deps []Dependency, extensionPoints []string) *Addon {
	return &Addon{
		id:              strings.TrimSpace(id),
		version:         version.Parse(rawVersion),
		dependencies:    append([]Dependency(nil), deps...),
		extensionPoints: append([]string(nil), extensionPoints...),
	}
}

// ID returns the add-on id
func (a *Addon) ID() string { return a.id }

// Version returns the add-on version
func (a *Addon) Version() version.Version { return a.version }

// Dependencies returns the declared dependencies in declaration order
func (a *Addon) Dependencies() []Dependency {
	return append([]Dependency(nil), a.dependencies...)
}

// ExtensionPoints returns the declared extension points in declaration order
func (a *Addon) ExtensionPoints() []string {
	return append([]string(nil), a.extensionPoints...)
}

// DependencyIDs returns the set of ids this add-on imports
func (a *Addon) DependencyIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(a.dependencies))
	for _, dep := range a.dependencies {
		ids[dep.id] = struct{}{}
	}
	return ids
}

// DependsOn reports whether id is among the declared dependencies
func (a *Addon) DependsOn(id string) bool {
	for _, dep := range a.dependencies {
		if dep.id == id {
			return true
		}
	}
	return false
}

// IsLibraryModule reports whether the add-on follows the script.module.* naming convention
func (a *Addon) IsLibraryModule() bool {
	return IsLibraryModuleID(a.id)
}

// IsLibraryModuleID is IsLibraryModule for a bare id
func IsLibraryModuleID(id string) bool {
	return strings.HasPrefix(id, LibraryModulePrefix)
}
