package proficiency

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrNoProficiency is returned when an item has no proficiency id assigned.
	ErrNoProficiency = errors.New("item has no proficiency")
	// ErrProficiencyNotFound is returned when the item's proficiency id is not loaded.
	ErrProficiencyNotFound = errors.New("proficiency not found")
	// ErrLevelNotFound is returned when the proficiency has no level with the requested id.
	ErrLevelNotFound = errors.New("proficiency level not found")
)

// ItemSource resolves an item to its proficiency id. 0 means no proficiency.
type ItemSource interface {
	ProficiencyID(itemID uint16) uint32
}

// Lookup answers gameplay queries by item id.
// Misses are logged and reported as nil/0; they never fail the caller.
type Lookup struct {
	registry *Registry
	items    ItemSource
	logger   *slog.Logger
}

// NewLookup creates a lookup facade over registry and items.
// A nil logger means slog.Default().
func NewLookup(registry *Registry, items ItemSource, logger *slog.Logger) *Lookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lookup{
		registry: registry,
		items:    items,
		logger:   logger,
	}
}

// Resolve returns the proficiency of itemID or one of
// ErrNoProficiency / ErrProficiencyNotFound. It does not log.
func (l *Lookup) Resolve(itemID uint16) (*Proficiency, error) {
	profID := l.items.ProficiencyID(itemID)
	if profID == 0 {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNoProficiency)
	}

	prof := l.registry.Get(profID)
	if prof == nil {
		return nil, fmt.Errorf("item %d proficiency %d: %w", itemID, profID, ErrProficiencyNotFound)
	}
	return prof, nil
}

// ResolveLevel returns the level with id level of itemID's proficiency.
func (l *Lookup) ResolveLevel(itemID uint16, level uint8) (*Level, error) {
	prof, err := l.Resolve(itemID)
	if err != nil {
		return nil, err
	}

	lvl := prof.Level(level)
	if lvl == nil {
		return nil, fmt.Errorf("item %d proficiency %d level %d: %w", itemID, prof.ID(), level, ErrLevelNotFound)
	}
	return lvl, nil
}

// ProficiencyByItemID returns the proficiency of itemID, or nil.
func (l *Lookup) ProficiencyByItemID(itemID uint16) *Proficiency {
	prof, err := l.Resolve(itemID)
	if err != nil {
		l.logMiss("ProficiencyByItemID", itemID, err)
		return nil
	}
	return prof
}

// MaxProficiencyLevelForItem returns the number of levels of itemID's proficiency, or 0.
func (l *Lookup) MaxProficiencyLevelForItem(itemID uint16) int {
	prof, err := l.Resolve(itemID)
	if err != nil {
		l.logMiss("MaxProficiencyLevelForItem", itemID, err)
		return 0
	}
	return prof.MaxLevel()
}

// MaxPerksPerProficiencyLevelForItem returns the perk count of the level
// with id level, or 0 if the item, proficiency or level is missing.
func (l *Lookup) MaxPerksPerProficiencyLevelForItem(itemID uint16, level uint8) int {
	lvl, err := l.ResolveLevel(itemID, level)
	if err != nil {
		l.logMiss("MaxPerksPerProficiencyLevelForItem", itemID, err)
		return 0
	}
	return lvl.MaxPerks()
}

// PerksForItem returns the perks of the level with id level, in slot order.
func (l *Lookup) PerksForItem(itemID uint16, level uint8) []Perk {
	lvl, err := l.ResolveLevel(itemID, level)
	if err != nil {
		l.logMiss("PerksForItem", itemID, err)
		return nil
	}
	return lvl.Perks()
}

// PerkForItem returns the perk in 1-based slot of the level with id level.
func (l *Lookup) PerkForItem(itemID uint16, level, slot uint8) (Perk, bool) {
	lvl, err := l.ResolveLevel(itemID, level)
	if err != nil {
		l.logMiss("PerkForItem", itemID, err)
		return Perk{}, false
	}
	return lvl.Perk(slot)
}

func (l *Lookup) logMiss(op string, itemID uint16, err error) {
	l.logger.Error("proficiency lookup miss", "op", op, "itemId", itemID, "error", err)
}
