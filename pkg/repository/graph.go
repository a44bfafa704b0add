package repository

import (
	"sort"

	"github.com/anxdpanic/addon-check/pkg/addon"
)

// DependencyGraph indexes the import edges between the add-ons of one branch
type DependencyGraph struct {
	nodes      map[string]*addon.Addon
	edges      map[string][]string            // id -> imported ids
	dependents map[string]map[string]struct{} // id -> ids importing it
}

// NewDependencyGraph creates an empty dependency graph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes:      make(map[string]*addon.Addon),
		edges:      make(map[string][]string),
		dependents: make(map[string]map[string]struct{}),
	}
}

// AddNode adds an add-on to the graph, replacing any earlier node with the same id
func (g *DependencyGraph) AddNode(a *addon.Addon) {
	id := a.ID()
	if _, exists := g.nodes[id]; exists {
		g.removeEdges(id)
	}
	g.nodes[id] = a

	deps := a.Dependencies()
	edges := make([]string, 0, len(deps))
	for _, dep := range deps {
		edges = append(edges, dep.ID())
		if g.dependents[dep.ID()] == nil {
			g.dependents[dep.ID()] = make(map[string]struct{})
		}
		g.dependents[dep.ID()][id] = struct{}{}
	}
	g.edges[id] = edges
}

func (g *DependencyGraph) removeEdges(id string) {
	for _, dep := range g.edges[id] {
		delete(g.dependents[dep], id)
	}
	delete(g.edges, id)
}

// GetNode retrieves an add-on from the graph
func (g *DependencyGraph) GetNode(id string) *addon.Addon {
	return g.nodes[id]
}

// GetDependencies returns the ids an add-on imports, in declaration order
func (g *DependencyGraph) GetDependencies(id string) []string {
	return append([]string(nil), g.edges[id]...)
}

// GetDependents returns the add-ons of the graph that import id, sorted by id.
// id itself does not have to be a node.
func (g *DependencyGraph) GetDependents(id string) []*addon.Addon {
	ids := make([]string, 0, len(g.dependents[id]))
	for dependent := range g.dependents[id] {
		ids = append(ids, dependent)
	}
	sort.Strings(ids)

	dependents := make([]*addon.Addon, 0, len(ids))
	for _, dependent := range ids {
		if node, ok := g.nodes[dependent]; ok {
			dependents = append(dependents, node)
		}
	}
	return dependents
}

// Len returns the number of nodes
func (g *DependencyGraph) Len() int {
	return len(g.nodes)
}
