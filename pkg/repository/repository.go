package repository

import (
	"sort"

	"github.com/anxdpanic/addon-check/pkg/addon"
	"github.com/anxdpanic/addon-check/pkg/dependencies"
)

// Repository is a read-only snapshot of the add-ons published on one branch
type Repository struct {
	name  string
	graph *DependencyGraph
	ids   []string
}

// NewRepository creates a branch snapshot. A later add-on with a duplicate id replaces the earlier one.
func NewRepository(branch string, addons []*addon.Addon) *Repository {
	graph := NewDependencyGraph()
	for _, a := range addons {
		if a == nil {
			continue
		}
		graph.AddNode(a)
	}

	ids := make([]string, 0, graph.Len())
	for id := range graph.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return &Repository{
		name:  branch,
		graph: graph,
		ids:   ids,
	}
}

// Name returns the branch name
func (r *Repository) Name() string { return r.name }

// Find returns the add-on with id, or nil
func (r *Repository) Find(id string) *addon.Addon {
	return r.graph.GetNode(id)
}

// ReverseDependents returns the add-ons importing id, sorted by id
func (r *Repository) ReverseDependents(id string) []*addon.Addon {
	return r.graph.GetDependents(id)
}

// Dependencies returns the ids imported by id
func (r *Repository) Dependencies(id string) []string {
	return r.graph.GetDependencies(id)
}

// Addons returns every add-on sorted by id
func (r *Repository) Addons() []*addon.Addon {
	addons := make([]*addon.Addon, 0, len(r.ids))
	for _, id := range r.ids {
		addons = append(addons, r.graph.GetNode(id))
	}
	return addons
}

// Len returns the number of add-ons
func (r *Repository) Len() int { return len(r.ids) }

var _ dependencies.Branch = (*Repository)(nil)
