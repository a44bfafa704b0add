package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/anxdpanic/addon-check/pkg/addon"
)

const (
	// IndexFile is the per-branch listing of every published add-on
	IndexFile = "addons.xml"
	// CompressedIndexFile is the gzip compressed variant of IndexFile
	CompressedIndexFile = IndexFile + ".gz"

	defaultCacheSize = 16
	defaultCacheTTL  = 10 * time.Minute
)

// ErrBranchNotFound is returned when a branch has no index file under the repository root
var ErrBranchNotFound = errors.New("branch not found")

// Metrics receives loader events. observability.Metrics satisfies it.
type Metrics interface {
	RecordBranchLoad(status string)
	RecordCacheHit()
	RecordCacheMiss()
}

// LoaderOptions configures a Loader
type LoaderOptions struct {
	CacheSize int
	CacheTTL  time.Duration
	Metrics   Metrics
	Logger    *logrus.Logger
}

// Loader reads branch repositories laid out as <root>/<branch>/addons.xml[.gz].
// Parsed branches are cached until the file changes or the entry expires.
type Loader struct {
	cache   *lru.LRU[string, *Repository]
	metrics Metrics
	log     *logrus.Logger
}

// NewLoader creates a new repository loader
func NewLoader(opts LoaderOptions) *Loader {
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}

	return &Loader{
		cache:   lru.NewLRU[string, *Repository](opts.CacheSize, nil, opts.CacheTTL),
		metrics: opts.Metrics,
		log:     opts.Logger,
	}
}

// LoadBranch loads the repository of one branch
func (l *Loader) LoadBranch(ctx context.Context, root, branch string) (*Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, info, err := findIndexFile(filepath.Join(root, branch))
	if err != nil {
		l.recordLoad("not_found")
		return nil, fmt.Errorf("%w: %s in %s", ErrBranchNotFound, branch, root)
	}

	key := cacheKey(path, info)
	if repo, ok := l.cache.Get(key); ok {
		l.recordCache(true)
		l.log.Debugf("Using cached repository for branch %s", branch)
		return repo, nil
	}
	l.recordCache(false)

	addons, err := l.readIndex(path)
	if err != nil {
		l.recordLoad("error")
		return nil, fmt.Errorf("failed to load branch %s: %w", branch, err)
	}

	repo := NewRepository(branch, addons)
	if repo.Len() != len(addons) {
		l.log.Warnf("Branch %s lists %d add-ons but only %d unique ids", branch, len(addons), repo.Len())
	}

	l.cache.Add(key, repo)

	l.recordLoad("success")
	l.log.Debugf("Loaded %d add-ons for branch %s from %s", repo.Len(), branch, path)
	return repo, nil
}

// LoadIndex loads every branch found under root. Branch directories without an index file are skipped.
func (l *Loader) LoadIndex(ctx context.Context, root string) (*Index, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read repository directory: %w", err)
	}

	var branches []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, _, err := findIndexFile(filepath.Join(root, entry.Name())); err != nil {
			l.log.Debugf("Skipping %s: no %s", entry.Name(), IndexFile)
			continue
		}
		branches = append(branches, entry.Name())
	}

	repos := make([]*Repository, len(branches))
	g, gctx := errgroup.WithContext(ctx)
	for i, branch := range branches {
		i, branch := i, branch
		g.Go(func() error {
			repo, err := l.LoadBranch(gctx, root, branch)
			if err != nil {
				return err
			}
			repos[i] = repo
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewIndex(repos...), nil
}

// Purge drops every cached branch
func (l *Loader) Purge() {
	l.cache.Purge()
}

func (l *Loader) readIndex(path string) ([]*addon.Addon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if filepath.Ext(path) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	return addon.ParseIndexXML(r)
}

func (l *Loader) recordLoad(status string) {
	if l.metrics != nil {
		l.metrics.RecordBranchLoad(status)
	}
}

func (l *Loader) recordCache(hit bool) {
	if l.metrics == nil {
		return
	}
	if hit {
		l.metrics.RecordCacheHit()
	} else {
		l.metrics.RecordCacheMiss()
	}
}

// findIndexFile prefers the plain index over the compressed one
func findIndexFile(dir string) (string, os.FileInfo, error) {
	var lastErr error
	for _, name := range []string{IndexFile, CompressedIndexFile} {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, info, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = os.ErrNotExist
	}
	return "", nil, lastErr
}

func cacheKey(path string, info os.FileInfo) string {
	return path + "|" + strconv.FormatInt(info.Size(), 10) + "|" + strconv.FormatInt(info.ModTime().UnixNano(), 10)
}
