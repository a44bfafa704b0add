package repository

import (
	"github.com/anxdpanic/addon-check/pkg/dependencies"
)

// Index holds the repositories of every branch, ordered by release
type Index struct {
	repos map[string]*Repository
	names []string
}

// NewIndex creates an index. A later repository with a duplicate branch name replaces the earlier one.
func NewIndex(repos ...*Repository) *Index {
	idx := &Index{repos: make(map[string]*Repository, len(repos))}
	for _, repo := range repos {
		if repo == nil {
			continue
		}
		if _, exists := idx.repos[repo.Name()]; !exists {
			idx.names = append(idx.names, repo.Name())
		}
		idx.repos[repo.Name()] = repo
	}
	SortBranches(idx.names)
	return idx
}

// Get returns the repository of branch
func (idx *Index) Get(branch string) (*Repository, bool) {
	repo, ok := idx.repos[branch]
	return repo, ok
}

// Names returns the branch names in ascending order
func (idx *Index) Names() []string {
	return append([]string(nil), idx.names...)
}

// Branches returns the repositories in ascending branch order
func (idx *Index) Branches() []dependencies.Branch {
	branches := make([]dependencies.Branch, 0, len(idx.names))
	for _, name := range idx.names {
		branches = append(branches, idx.repos[name])
	}
	return branches
}

// Len returns the number of branches
func (idx *Index) Len() int { return len(idx.names) }

var _ dependencies.BranchIndex = (*Index)(nil)
