package policy

import "strings"

// Options describes a custom set of policy tables
type Options struct {
	// CommonIgnore lists dependency ids ignored on every branch
	CommonIgnore []string
	// BranchIgnore lists extra ignored ids per branch
	BranchIgnore map[string][]string
	// Extensions maps an extension point to the dependency it requires
	Extensions map[string]string
	// VersionOverrides maps a dependency id to the advised minimum version per branch
	VersionOverrides map[string]map[string]string
}

// Tables holds the read-only lookup tables the dependency checks consult.
// A *Tables value is never mutated after construction and may be shared between goroutines.
type Tables struct {
	commonIgnore     map[string]struct{}
	branchIgnore     map[string][]string
	extensions       map[string]string
	versionOverrides map[string]map[string]string
}

// New builds tables from opts. The input maps and slices are copied.
func New(opts Options) *Tables {
	t := &Tables{
		commonIgnore:     make(map[string]struct{}, len(opts.CommonIgnore)),
		branchIgnore:     make(map[string][]string, len(opts.BranchIgnore)),
		extensions:       make(map[string]string, len(opts.Extensions)),
		versionOverrides: make(map[string]map[string]string, len(opts.VersionOverrides)),
	}

	for _, id := range opts.CommonIgnore {
		if id = strings.TrimSpace(id); id != "" {
			t.commonIgnore[id] = struct{}{}
		}
	}
	for branch, ids := range opts.BranchIgnore {
		t.branchIgnore[branch] = append([]string(nil), ids...)
	}
	for point, dep := range opts.Extensions {
		t.extensions[point] = dep
	}
	for dep, perBranch := range opts.VersionOverrides {
		copied := make(map[string]string, len(perBranch))
		for branch, value := range perBranch {
			copied[branch] = value
		}
		t.versionOverrides[dep] = copied
	}

	return t
}

// Options returns a copy of the tables as Options
func (t *Tables) Options() Options {
	opts := Options{
		CommonIgnore:     make([]string, 0, len(t.commonIgnore)),
		BranchIgnore:     make(map[string][]string, len(t.branchIgnore)),
		Extensions:       make(map[string]string, len(t.extensions)),
		VersionOverrides: make(map[string]map[string]string, len(t.versionOverrides)),
	}
	for id := range t.commonIgnore {
		opts.CommonIgnore = append(opts.CommonIgnore, id)
	}
	for branch, ids := range t.branchIgnore {
		opts.BranchIgnore[branch] = append([]string(nil), ids...)
	}
	for point, dep := range t.extensions {
		opts.Extensions[point] = dep
	}
	for dep, perBranch := range t.versionOverrides {
		copied := make(map[string]string, len(perBranch))
		for branch, value := range perBranch {
			copied[branch] = value
		}
		opts.VersionOverrides[dep] = copied
	}
	return opts
}

// WithIgnored returns new tables that additionally ignore ids on every branch
func (t *Tables) WithIgnored(ids ...string) *Tables {
	opts := t.Options()
	opts.CommonIgnore = append(opts.CommonIgnore, ids...)
	return New(opts)
}

// EffectiveIgnoreSet returns the ids ignored for branch: the common set plus that
// branch's additions. A fresh set is built on every call.
func (t *Tables) EffectiveIgnoreSet(branch string) map[string]struct{} {
	extra := t.branchIgnore[branch]
	set := make(map[string]struct{}, len(t.commonIgnore)+len(extra))
	for id := range t.commonIgnore {
		set[id] = struct{}{}
	}
	for _, id := range extra {
		set[id] = struct{}{}
	}
	return set
}

// RequiredDependency returns the dependency an extension point requires
func (t *Tables) RequiredDependency(point string) (string, bool) {
	dep, ok := t.extensions[point]
	return dep, ok
}

// VersionOverride looks up the advised minimum version of depID on branch.
// known reports whether depID has an override table at all, ok whether it has an entry for branch.
func (t *Tables) VersionOverride(depID, branch string) (value string, known bool, ok bool) {
	perBranch, known := t.versionOverrides[depID]
	if !known {
		return "", false, false
	}
	value, ok = perBranch[branch]
	return value, true, ok
}
