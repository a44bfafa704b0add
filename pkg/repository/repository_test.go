package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anxdpanic/addon-check/pkg/addon"
)

func dep(id string) addon.Dependency {
	return addon.NewDependency(id, "", false)
}

func TestSortBranches(t *testing.T) {
	names := []string{"matrix", "nexus", "krypton", "alpha", "gotham", "leia"}
	SortBranches(names)
	assert.Equal(t, []string{"gotham", "krypton", "leia", "matrix", "alpha", "nexus"}, names)

	rank, ok := BranchOrder("jarvis")
	assert.True(t, ok)
	assert.Equal(t, 3, rank)

	_, ok = BranchOrder("nexus")
	assert.False(t, ok)
	assert.True(t, IsKnownBranch("leia"))
	assert.False(t, IsKnownBranch("Leia"))
}

func TestDependencyGraph(t *testing.T) {
	graph := NewDependencyGraph()

	lib := addon.NewAddon("script.module.lib", "1.0", nil, nil)
	user := addon.NewAddon("plugin.user", "1.0", []addon.Dependency{dep("script.module.lib"), dep("xbmc.python")}, nil)
	other := addon.NewAddon("plugin.other", "1.0", []addon.Dependency{dep("script.module.lib")}, nil)

	graph.AddNode(lib)
	graph.AddNode(user)
	graph.AddNode(other)

	assert.Same(t, lib, graph.GetNode("script.module.lib"))
	assert.Nil(t, graph.GetNode("missing"))
	assert.Equal(t, []string{"script.module.lib", "xbmc.python"}, graph.GetDependencies("plugin.user"))
	assert.Empty(t, graph.GetDependencies("missing"))

	dependents := graph.GetDependents("script.module.lib")
	require.Len(t, dependents, 2)
	assert.Equal(t, "plugin.other", dependents[0].ID())
	assert.Equal(t, "plugin.user", dependents[1].ID())

	// dependents of ids that are not nodes
	require.Len(t, graph.GetDependents("xbmc.python"), 1)

	// replacing a node drops its old edges
	graph.AddNode(addon.NewAddon("plugin.user", "2.0", nil, nil))
	require.Len(t, graph.GetDependents("script.module.lib"), 1)
	assert.Empty(t, graph.GetDependents("xbmc.python"))
	assert.Equal(t, 3, graph.Len())
}

func TestRepository(t *testing.T) {
	first := addon.NewAddon("plugin.dup", "1.0", nil, nil)
	second := addon.NewAddon("plugin.dup", "2.0", []addon.Dependency{dep("script.module.lib")}, nil)
	lib := addon.NewAddon("script.module.lib", "1.0", nil, nil)

	repo := NewRepository("leia", []*addon.Addon{first, lib, nil, second})
	assert.Equal(t, "leia", repo.Name())
	assert.Equal(t, 2, repo.Len())
	assert.Same(t, second, repo.Find("plugin.dup"))
	assert.Nil(t, repo.Find("missing"))

	addons := repo.Addons()
	require.Len(t, addons, 2)
	assert.Equal(t, "plugin.dup", addons[0].ID())
	assert.Equal(t, "script.module.lib", addons[1].ID())

	dependents := repo.ReverseDependents("script.module.lib")
	require.Len(t, dependents, 1)
	assert.Same(t, second, dependents[0])
	assert.Equal(t, []string{"script.module.lib"}, repo.Dependencies("plugin.dup"))
}

func TestIndex(t *testing.T) {
	leia := NewRepository("leia", nil)
	krypton := NewRepository("krypton", nil)
	custom := NewRepository("custom", nil)
	replacement := NewRepository("leia", []*addon.Addon{addon.NewAddon("a", "1", nil, nil)})

	idx := NewIndex(leia, custom, krypton, nil, replacement)
	assert.Equal(t, []string{"krypton", "leia", "custom"}, idx.Names())
	assert.Equal(t, 3, idx.Len())

	got, ok := idx.Get("leia")
	require.True(t, ok)
	assert.Same(t, replacement, got)

	_, ok = idx.Get("matrix")
	assert.False(t, ok)

	branches := idx.Branches()
	require.Len(t, branches, 3)
	assert.Equal(t, "krypton", branches[0].Name())
	assert.Equal(t, "leia", branches[1].Name())
	assert.Equal(t, "custom", branches[2].Name())
}
