package proficiency

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Registry owns the loaded proficiency definitions.
//
// Readers get an immutable *Catalog snapshot; Load/Reload build a new catalog
// aside and publish it with an atomic swap, so concurrent lookups never see a
// partially built map. Load and Reload are serialized against each other.
type Registry struct {
	coreDir string
	logger  *slog.Logger

	mu      sync.Mutex // serializes Load/Reload
	catalog atomic.Pointer[Catalog]
	loaded  atomic.Bool
}

// NewRegistry creates an empty, unloaded registry reading definitions from coreDir.
// A nil logger means slog.Default().
func NewRegistry(coreDir string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		coreDir: coreDir,
		logger:  logger,
	}
	r.catalog.Store(emptyCatalog)
	return r
}

var instance atomic.Pointer[Registry]

// Instance returns the process-wide registry. Code that isn't handed a
// *Registry explicitly (reload triggers, gameplay lookups) reaches it here.
// Until Install is called it is an empty registry rooted at the working directory.
func Instance() *Registry {
	if r := instance.Load(); r != nil {
		return r
	}
	instance.CompareAndSwap(nil, NewRegistry("", nil))
	return instance.Load()
}

// Install replaces the process-wide registry. Called once at startup.
func Install(r *Registry) {
	instance.Store(r)
}

// Path returns the definitions file this registry loads.
func (r *Registry) Path() string {
	return DefinitionsPath(r.coreDir)
}

// Load parses the definitions file and replaces the catalog wholesale.
// On failure the current catalog and loaded flag are left untouched.
func (r *Registry) Load(reloading bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(reloading)
}

// Reload re-reads the definitions file.
// Readers keep seeing the previous catalog until the new one is published.
// If the new file fails to parse the registry ends up empty and unloaded.
func (r *Registry) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.load(true); err != nil {
		r.catalog.Store(emptyCatalog)
		r.loaded.Store(false)
		return err
	}
	return nil
}

func (r *Registry) load(reloading bool) error {
	path := r.Path()

	cat, err := BuildFile(path, r.logger)
	if err != nil {
		r.logger.Error("failed to load proficiencies", "path", path, "error", err)
		return fmt.Errorf("loading proficiencies: %w", err)
	}

	r.catalog.Store(cat)
	r.loaded.Store(true)

	r.logger.Info("loaded proficiencies",
		"path", path,
		"count", cat.Len(),
		"duplicates", len(cat.duplicates),
		"reloading", reloading)
	return nil
}

// Loaded reports whether the last load attempt succeeded.
func (r *Registry) Loaded() bool { return r.loaded.Load() }

// Snapshot returns the current catalog. Never nil.
func (r *Registry) Snapshot() *Catalog { return r.catalog.Load() }

// Get returns the proficiency with id, or nil if absent or not loaded.
func (r *Registry) Get(id uint32) *Proficiency {
	return r.catalog.Load().Get(id)
}

// Count returns the number of loaded proficiencies.
func (r *Registry) Count() int { return r.catalog.Load().Len() }
