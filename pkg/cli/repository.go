package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/anxdpanic/addon-check/pkg/dependencies"
	"github.com/anxdpanic/addon-check/pkg/observability"
	"github.com/anxdpanic/addon-check/pkg/policy"
	"github.com/anxdpanic/addon-check/pkg/repository"
)

var (
	errNoRepository = errors.New("no repository directory given, use --repo or repository_dir")
	errNoBranch     = errors.New("no branch given, use --branch or branch")
)

// newLoader builds a repository loader sized from the configuration
func (a *App) newLoader(metrics *observability.Metrics) *repository.Loader {
	return repository.NewLoader(repository.LoaderOptions{
		CacheSize: a.Config.Cache.Size,
		CacheTTL:  a.Config.Cache.TTL,
		Metrics:   metrics,
		Logger:    a.Log,
	})
}

// loadIndex loads every branch under root and fails when none is found
func loadIndex(ctx context.Context, loader *repository.Loader, root string) (*repository.Index, error) {
	if root == "" {
		return nil, errNoRepository
	}

	idx, err := loader.LoadIndex(ctx, root)
	if err != nil {
		return nil, err
	}
	if idx.Len() == 0 {
		return nil, fmt.Errorf("no branch repositories found in %s", root)
	}
	return idx, nil
}

// newChecker builds a checker ignoring the configured dependencies in addition to the built-in tables
func (a *App) newChecker(extraIgnored ...string) *dependencies.Checker {
	tables := policy.Default()
	ignored := append(append([]string(nil), a.Config.IgnoreDependencies...), extraIgnored...)
	if len(ignored) > 0 {
		tables = tables.WithIgnored(ignored...)
	}
	return dependencies.NewChecker(tables, a.Log)
}
