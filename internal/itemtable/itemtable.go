// Package itemtable maps item templates to their weapon proficiency.
package itemtable

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// File is the table path relative to the core config directory.
const File = "items/item_proficiencies.yaml"

// Path returns the item table path under coreDir.
func Path(coreDir string) string {
	return filepath.Join(coreDir, filepath.FromSlash(File))
}

type yamlTable struct {
	Items []yamlEntry `yaml:"items"`
}

type yamlEntry struct {
	ItemID        uint16 `yaml:"item_id"`
	ProficiencyID uint32 `yaml:"proficiency_id"`
}

// Table — read-only map itemID → proficiencyID.
type Table struct {
	byItem map[uint16]uint32
}

// New creates a table from an in-memory map. Entries with proficiency 0 are dropped.
func New(entries map[uint16]uint32) *Table {
	t := &Table{byItem: make(map[uint16]uint32, len(entries))}
	for itemID, profID := range entries {
		if profID != 0 {
			t.byItem[itemID] = profID
		}
	}
	return t
}

// Load reads the item table from a YAML file.
// A later entry for the same item overrides the earlier one.
// A nil logger means slog.Default().
func Load(path string, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading item table %s: %w", path, err)
	}

	var raw yamlTable
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing item table %s: %w", path, err)
	}

	entries := make(map[uint16]uint32, len(raw.Items))
	for _, e := range raw.Items {
		if prev, ok := entries[e.ItemID]; ok && prev != e.ProficiencyID {
			logger.Warn("item proficiency redefined", "itemId", e.ItemID, "old", prev, "new", e.ProficiencyID)
		}
		entries[e.ItemID] = e.ProficiencyID
	}

	t := New(entries)
	logger.Info("loaded item proficiencies", "path", path, "count", t.Len())
	return t, nil
}

// ProficiencyID returns the proficiency id of itemID, 0 if none.
func (t *Table) ProficiencyID(itemID uint16) uint32 {
	if t == nil {
		return 0
	}
	return t.byItem[itemID]
}

// Len returns the number of items with a proficiency.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byItem)
}

// ItemIDs returns all items with a proficiency, ascending.
func (t *Table) ItemIDs() []uint16 {
	if t == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(t.byItem))
}
