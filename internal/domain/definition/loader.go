package definition

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rpggio/casedesk/internal/repository"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var documentExtensions = []string{".yaml", ".yml", ".json"}

// Decode parses a YAML or JSON definition document.
func Decode(data []byte) (*Version, error) {
	var v Version
	if err := yaml.Unmarshal(data, &v); err != nil {
		if errors.Is(err, ErrUnknownFieldType) || errors.Is(err, ErrInvalidDocument) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &v, nil
}

// LoadFile reads a definition document. The version ID defaults to the file
// name without its extension.
func LoadFile(path string) (*Version, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading definition %s: %w", path, err)
	}
	v, err := Decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding definition %s: %w", path, err)
	}
	if v.ID == "" {
		v.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return v, data, nil
}

// Registry resolves definition versions from memory, the document cache, and
// finally the definitions directory.
type Registry struct {
	dir    string
	repo   Repository
	logger *slog.Logger

	mu       sync.RWMutex
	versions map[string]*Version
}

// NewRegistry creates a registry reading documents from dir. repo may be nil.
func NewRegistry(dir string, repo Repository, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{dir: dir, repo: repo, logger: logger, versions: map[string]*Version{}}
}

// Get returns a definition version, loading and caching it on first use.
func (r *Registry) Get(ctx context.Context, id string) (*Version, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrVersionNotFound
	}
	r.mu.RLock()
	v, ok := r.versions[id]
	r.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err := r.fromCache(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		v, err = r.fromDir(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.versions[id] = v
	r.mu.Unlock()
	return v, nil
}

// Preload loads every version concurrently, stopping at the first failure.
func (r *Registry) Preload(ctx context.Context, ids []string) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			_, err := r.Get(gctx, id)
			return err
		})
	}
	return g.Wait()
}

// Available lists the version IDs present in the definitions directory.
func (r *Registry) Available() ([]string, error) {
	if r.dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing definitions: %w", err)
	}
	seen := map[string]bool{}
	var ids []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || !isDocument(ext) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ext)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *Registry) fromCache(ctx context.Context, id string) (*Version, error) {
	if r.repo == nil {
		return nil, nil
	}
	data, err := r.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cached definition %s: %w", id, err)
	}
	v, err := Decode(data)
	if err != nil {
		r.logger.Warn("discarding unreadable cached definition", "version", id, "error", err)
		return nil, nil
	}
	if v.ID == "" {
		v.ID = id
	}
	return v, nil
}

func (r *Registry) fromDir(ctx context.Context, id string) (*Version, error) {
	if r.dir == "" {
		return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, id)
	}
	for _, ext := range documentExtensions {
		path := filepath.Join(r.dir, id+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v, data, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if r.repo != nil {
			if err := r.repo.Put(ctx, id, data); err != nil {
				r.logger.Warn("caching definition failed", "version", id, "error", err)
			}
		}
		r.logger.Info("definition loaded", "version", id, "path", path)
		return v, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, id)
}

func isDocument(ext string) bool {
	for _, e := range documentExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
