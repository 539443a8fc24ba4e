// Package catalog serves questionnaire definitions from a directory.
//
// Parsed definitions are immutable, so one copy per file is cached and
// shared by every session opened over it. A filesystem watcher evicts a
// cached definition as soon as its file changes; sessions already open keep
// the definition they started with.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/HendryAvila/surveyor/internal/questionnaire"
)

// ErrOutsideCatalog is returned for paths that escape the catalog directory.
var ErrOutsideCatalog = errors.New("path is outside the catalog directory")

// Entry describes one definition file.
type Entry struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	ID    string `json:"id,omitempty"`
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
	Items int    `json:"items"`
	Error string `json:"error,omitempty"`
}

// Catalog loads definitions from Dir.
type Catalog struct {
	dir   string
	cache *lru.Cache[string, *questionnaire.Questionnaire]
	log   *zap.Logger

	// loadFile is swapped in tests to count disk reads.
	loadFile func(path string) (*questionnaire.Questionnaire, error)
}

// New creates a catalog over dir caching at most size definitions.
func New(dir string, size int, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("catalog: resolving %s: %w", dir, err)
	}
	if size <= 0 {
		size = 64
	}
	cache, err := lru.New[string, *questionnaire.Questionnaire](size)
	if err != nil {
		return nil, fmt.Errorf("catalog: creating cache: %w", err)
	}
	return &Catalog{
		dir:      abs,
		cache:    cache,
		log:      log,
		loadFile: questionnaire.LoadFile,
	}, nil
}

// Dir returns the absolute catalog directory.
func (c *Catalog) Dir() string { return c.dir }

// Resolve turns a name (relative to the catalog) or an absolute path inside
// the catalog into an absolute path.
func (c *Catalog) Resolve(name string) (string, error) {
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(c.dir, p)
	}
	p = filepath.Clean(p)
	rel, err := filepath.Rel(c.dir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideCatalog, name)
	}
	return p, nil
}

// Load returns the definition stored under name, parsing it on first use.
func (c *Catalog) Load(name string) (*questionnaire.Questionnaire, string, error) {
	path, err := c.Resolve(name)
	if err != nil {
		return nil, "", err
	}
	if q, ok := c.cache.Get(path); ok {
		return q, path, nil
	}
	q, err := c.loadFile(path)
	if err != nil {
		return nil, "", err
	}
	c.cache.Add(path, q)
	c.log.Debug("definition loaded", zap.String("path", path), zap.String("questionnaire", q.Reference()))
	return q, path, nil
}

// Evict drops the cached definition of path, if any.
func (c *Catalog) Evict(path string) bool {
	return c.cache.Remove(filepath.Clean(path))
}

// Cached returns how many definitions are in memory.
func (c *Catalog) Cached() int { return c.cache.Len() }

// List enumerates definition files in the catalog directory (not recursive).
// Files that fail to parse are listed with their error.
func (c *Catalog) List() ([]Entry, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: reading %s: %w", c.dir, err)
	}

	var out []Entry
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := questionnaire.FormatFor(e.Name()); err != nil {
			continue
		}
		entry := Entry{Name: e.Name(), Path: filepath.Join(c.dir, e.Name())}
		q, _, err := c.Load(e.Name())
		if err != nil {
			entry.Error = err.Error()
		} else {
			entry.ID = q.ID
			entry.URL = q.URL
			entry.Title = q.Title
			entry.Items = len(q.LinkIDs())
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Watch evicts cached definitions whose files are written, renamed or
// removed, until ctx is cancelled. ready, if non-nil, is closed once the
// watcher is registered.
func (c *Catalog) Watch(ctx context.Context, ready chan<- struct{}) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog: creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(c.dir); err != nil {
		return fmt.Errorf("catalog: watching %s: %w", c.dir, err)
	}
	if ready != nil {
		close(ready)
	}

	const evictOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&evictOps == 0 {
				continue
			}
			if c.Evict(ev.Name) {
				c.log.Info("definition changed on disk, cache entry evicted", zap.String("path", ev.Name))
			}
		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.log.Warn("catalog watcher error", zap.Error(werr))
		}
	}
}
