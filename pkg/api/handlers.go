package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/anxdpanic/addon-check/pkg/addon"
	"github.com/anxdpanic/addon-check/pkg/dependencies"
	"github.com/anxdpanic/addon-check/pkg/httputil"
	"github.com/anxdpanic/addon-check/pkg/report"
	"github.com/anxdpanic/addon-check/pkg/repository"
)

// listBranches handles GET /v1/branches
func (s *Server) listBranches(w http.ResponseWriter, r *http.Request) {
	branches := []BranchSummary{}
	if idx := s.index.Load(); idx != nil {
		for _, name := range idx.Names() {
			repo, _ := idx.Get(name)
			branches = append(branches, BranchSummary{
				Name:   name,
				Addons: repo.Len(),
				Known:  repository.IsKnownBranch(name),
			})
		}
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"branches": branches,
		"count":    len(branches),
	})
}

// getAddon handles GET /v1/branches/{branch}/addons/{id}
func (s *Server) getAddon(w http.ResponseWriter, r *http.Request) {
	_, repo, ok := s.branchOrError(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	a := repo.Find(id)
	if a == nil {
		httputil.WriteNotFoundError(w, fmt.Sprintf("addon %s not found in %s", id, repo.Name()))
		return
	}

	httputil.WriteSuccess(w, newAddonInfo(repo.Name(), a))
}

// getDependents handles GET /v1/branches/{branch}/addons/{id}/dependents
func (s *Server) getDependents(w http.ResponseWriter, r *http.Request) {
	idx, repo, ok := s.branchOrError(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	rdeps := dependencies.ResolveReverseDependencies(id, repo.Name(), idx)

	httputil.WriteSuccess(w, map[string]interface{}{
		"branch":         repo.Name(),
		"addon":          id,
		"same_or_later":  rdeps.SameOrLater,
		"lower_branches": rdeps.LowerBranches,
		"count":          len(rdeps.SameOrLater) + len(rdeps.LowerBranches),
	})
}

// checkAddon handles POST /v1/branches/{branch}/check with an addon.xml body
func (s *Server) checkAddon(w http.ResponseWriter, r *http.Request) {
	idx, repo, ok := s.branchOrError(w, r)
	if !ok {
		return
	}
	minSeverity, err := httputil.ParseQuerySeverity(r, "min_severity", report.Information)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	a, err := addon.ParseXML(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteErrorMessage(w, http.StatusRequestEntityTooLarge, "addon.xml too large")
			return
		}
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	start := time.Now()
	rep := report.New(a.ID())
	if err := s.checker.CheckAll(a, repo.Name(), idx, rep); err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	s.metrics.RecordCheck(repo.Name(), time.Since(start), rep.Summary())

	resp := CheckResponse{
		Addon:   a.ID(),
		Branch:  repo.Name(),
		Records: []report.Record{},
		Summary: rep.Summary(),
	}
	for _, rec := range rep.Records() {
		if rec.Severity >= minSeverity {
			resp.Records = append(resp.Records, rec)
		}
	}
	if highest, ok := rep.Highest(); ok {
		resp.Highest = &highest
	}

	httputil.WriteSuccess(w, resp)
}

// branchOrError resolves the {branch} path parameter against a snapshot of the index
func (s *Server) branchOrError(w http.ResponseWriter, r *http.Request) (*repository.Index, *repository.Repository, bool) {
	branch, ok := httputil.ParsePathStringOrError(w, r, "branch")
	if !ok {
		return nil, nil, false
	}

	idx := s.index.Load()
	if idx == nil {
		httputil.WriteErrorMessage(w, http.StatusServiceUnavailable, ErrNoIndex.Error())
		return nil, nil, false
	}
	repo, found := idx.Get(branch)
	if !found {
		httputil.WriteNotFoundError(w, fmt.Sprintf("branch %s not found", branch))
		return nil, nil, false
	}
	return idx, repo, true
}
