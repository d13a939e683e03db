package proficiency

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// DefinitionsFile is the definitions path relative to the core config directory.
const DefinitionsFile = "items/proficiencies.xml"

// DefinitionsPath returns the proficiencies.xml path under coreDir.
func DefinitionsPath(coreDir string) string {
	return filepath.Join(coreDir, filepath.FromSlash(DefinitionsFile))
}

// ParseError is returned when the definitions document can't be read or decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse proficiencies: %v", e.Err)
	}
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MaxPerksPerLevel is the highest slot number a level can hold.
const MaxPerksPerLevel = math.MaxUint8

// rootElement is the expected document root. Any other root yields an empty catalog.
const rootElement = "proficiencies"

// --- XML structures ---

// Numeric attributes are kept as strings and converted leniently:
// a bad number zeroes that field instead of failing the whole document.
type xmlProficiencyList struct {
	XMLName       xml.Name
	Proficiencies []xmlProficiency `xml:"proficiency"`
}

type xmlProficiency struct {
	ID     string     `xml:"id,attr"`
	Name   string     `xml:"name,attr"`
	Levels []xmlLevel `xml:"level"`
}

type xmlLevel struct {
	ID    string    `xml:"id,attr"`
	Perks []xmlPerk `xml:"perk"`
}

// Optional attributes are pointers: nil means the attribute is absent.
type xmlPerk struct {
	Type       string  `xml:"type,attr"`
	Value      string  `xml:"value,attr"`
	Skill      *string `xml:"skill,attr"`
	DamageType *string `xml:"damageType,attr"`
	Element    *string `xml:"element,attr"`
	Augment    *string `xml:"augment,attr"`
	Range      *string `xml:"range,attr"`
	SpellID    *string `xml:"spellId,attr"`
	BestiaryID *string `xml:"bestiaryId,attr"`
}

// Catalog is an immutable snapshot of loaded proficiencies keyed by id.
type Catalog struct {
	byID       map[uint32]*Proficiency
	duplicates []uint32
}

var emptyCatalog = &Catalog{byID: map[uint32]*Proficiency{}}

// Get returns the proficiency with id, or nil.
func (c *Catalog) Get(id uint32) *Proficiency {
	return c.byID[id]
}

// Len returns the number of distinct proficiencies.
func (c *Catalog) Len() int { return len(c.byID) }

// IDs returns all proficiency ids in ascending order.
func (c *Catalog) IDs() []uint32 {
	return slices.Sorted(maps.Keys(c.byID))
}

// Duplicates returns ids that appeared more than once, in document order
// of the overriding entry.
func (c *Catalog) Duplicates() []uint32 {
	return slices.Clone(c.duplicates)
}

// BuildFile reads and builds the definitions document at path.
func BuildFile(path string, logger *slog.Logger) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	cat, err := Build(f, logger)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return cat, nil
}

// Build decodes a definitions document and builds the entity graph.
// Either the whole document is built or an error is returned.
func Build(r io.Reader, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc xmlProficiencyList
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	// Decode stops at the root end tag; the tail must still be well-formed.
	for {
		if _, err := dec.Token(); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ParseError{Err: err}
		}
	}

	cat := &Catalog{byID: make(map[uint32]*Proficiency, len(doc.Proficiencies))}
	if doc.XMLName.Local != rootElement {
		logger.Warn("definitions root is not <proficiencies>, nothing loaded", "root", doc.XMLName.Local)
		return cat, nil
	}

	for i := range doc.Proficiencies {
		prof, err := buildProficiency(&doc.Proficiencies[i], logger)
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		if _, exists := cat.byID[prof.id]; exists {
			logger.Warn("duplicate proficiency id, later definition wins", "proficiencyId", prof.id)
			cat.duplicates = append(cat.duplicates, prof.id)
		}
		cat.byID[prof.id] = prof
	}
	return cat, nil
}

func buildProficiency(xp *xmlProficiency, logger *slog.Logger) (*Proficiency, error) {
	id := uint32(parseUint(xp.ID, 32, "proficiency id", 0, logger))
	prof := &Proficiency{
		id:       id,
		name:     xp.Name,
		maxLevel: len(xp.Levels),
		levels:   make([]Level, 0, len(xp.Levels)),
	}

	for _, xl := range xp.Levels {
		if len(xl.Perks) > MaxPerksPerLevel {
			return nil, fmt.Errorf("proficiency %d level %q: %d perks, at most %d allowed",
				id, xl.ID, len(xl.Perks), MaxPerksPerLevel)
		}
		lvl := Level{
			id:       uint8(parseUint(xl.ID, 8, "level id", id, logger)),
			maxPerks: len(xl.Perks),
			perks:    make([]Perk, 0, len(xl.Perks)),
		}
		for i := range xl.Perks {
			// Слоты нумеруются с 1 в порядке документа.
			lvl.perks = append(lvl.perks, buildPerk(uint8(i+1), &xl.Perks[i], id, logger))
		}
		prof.levels = append(prof.levels, lvl)
	}
	return prof, nil
}

func buildPerk(slot uint8, xp *xmlPerk, profID uint32, logger *slog.Logger) Perk {
	perk := Perk{
		slot:     slot,
		perkType: translate(PerkTypes, xp.Type, profID, logger),
		value:    parseFloat(xp.Value, "value", profID, logger),
	}

	if xp.Skill != nil {
		perk.skill = translate(Skills, *xp.Skill, profID, logger)
	}
	// Scan order is damageType then element: element wins when both are set.
	if xp.DamageType != nil {
		perk.damageType = translate(DamageTypes, *xp.DamageType, profID, logger)
	}
	if xp.Element != nil {
		perk.damageType = translate(DamageTypes, *xp.Element, profID, logger)
	}
	if xp.Augment != nil {
		perk.augment = translate(Augments, *xp.Augment, profID, logger)
	}
	if xp.Range != nil {
		perk.attackRng = uint32(parseUint(*xp.Range, 32, "range", profID, logger))
	}
	if xp.SpellID != nil {
		perk.spellID = uint32(parseUint(*xp.SpellID, 32, "spellId", profID, logger))
	}
	if xp.BestiaryID != nil {
		perk.bestiaryID = uint32(parseUint(*xp.BestiaryID, 32, "bestiaryId", profID, logger))
	}
	return perk
}

// parseUint converts a numeric attribute; empty or invalid values yield 0.
func parseUint(raw string, bits int, attr string, profID uint32, logger *slog.Logger) uint64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseUint(raw, 10, bits)
	if err != nil {
		logger.Warn("invalid numeric attribute, using 0",
			"attr", attr,
			"value", raw,
			"proficiencyId", profID,
			"error", err)
		return 0
	}
	return v
}

// parseFloat converts a floating point attribute; empty or invalid values yield 0.
func parseFloat(raw, attr string, profID uint32, logger *slog.Logger) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logger.Warn("invalid numeric attribute, using 0",
			"attr", attr,
			"value", raw,
			"proficiencyId", profID,
			"error", err)
		return 0
	}
	return v
}

// translate falls back to the table default for unknown tokens.
// The fallback is intentional, so it is only visible at debug level.
func translate[T comparable](table *TokenTable[T], token string, profID uint32, logger *slog.Logger) T {
	code, ok := table.Lookup(token)
	if !ok {
		logger.Debug("unrecognized proficiency token, using default",
			"kind", table.Kind(),
			"token", token,
			"proficiencyId", profID)
	}
	return code
}
