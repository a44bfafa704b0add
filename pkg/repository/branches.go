package repository

import "sort"

// KnownBranches lists the Kodi release branches in release order
var KnownBranches = []string{
	"gotham",
	"helix",
	"isengard",
	"jarvis",
	"krypton",
	"leia",
	"matrix",
}

var branchRank = func() map[string]int {
	rank := make(map[string]int, len(KnownBranches))
	for i, name := range KnownBranches {
		rank[name] = i
	}
	return rank
}()

// BranchOrder returns the release position of a known branch
func BranchOrder(name string) (int, bool) {
	rank, ok := branchRank[name]
	return rank, ok
}

// IsKnownBranch reports whether name is a known release branch
func IsKnownBranch(name string) bool {
	_, ok := branchRank[name]
	return ok
}

// SortBranches sorts names in place: known branches in release order,
// then unknown names in lexical order.
func SortBranches(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return branchLess(names[i], names[j])
	})
}

func branchLess(a, b string) bool {
	ra, okA := branchRank[a]
	rb, okB := branchRank[b]
	switch {
	case okA && okB:
		return ra < rb
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}
