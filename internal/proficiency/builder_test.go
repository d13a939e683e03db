package proficiency

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var discardLogger = slog.New(slog.DiscardHandler)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<proficiencies>
	<proficiency id="10" name="Swords">
		<level id="1">
			<perk type="attackDamage" value="2"/>
			<perk type="critChance" value="0.5" skill="sword"/>
			<perk type="skillBonus" value="1" skill="sword" augment="cooldown" spellId="23"/>
		</level>
		<level id="2">
			<perk type="bestiaryDamage" value="4.25" bestiaryId="117" range="3"/>
		</level>
	</proficiency>
	<proficiency id="20" name="Wands">
		<level id="1">
			<perk type="critChanceSpell" value="1" element="fire"/>
		</level>
		<level id="5"/>
		<level id="9">
			<perk type="notARealPerk" value="7" skill="juggling" damageType="plasma"/>
		</level>
	</proficiency>
</proficiencies>
`

func mustBuild(t *testing.T, doc string) *Catalog {
	t.Helper()
	cat, err := Build(strings.NewReader(doc), discardLogger)
	require.NoError(t, err)
	return cat
}

func TestBuild_Sample(t *testing.T) {
	t.Parallel()

	cat := mustBuild(t, sampleXML)
	require.Equal(t, 2, cat.Len())
	assert.Equal(t, []uint32{10, 20}, cat.IDs())
	assert.Empty(t, cat.Duplicates())

	swords := cat.Get(10)
	require.NotNil(t, swords)
	assert.Equal(t, uint32(10), swords.ID())
	assert.Equal(t, "Swords", swords.Name())
	assert.Equal(t, 2, swords.MaxLevel())

	lvl1 := swords.Level(1)
	require.NotNil(t, lvl1)
	assert.Equal(t, 3, lvl1.MaxPerks())

	perks := lvl1.Perks()
	require.Len(t, perks, 3)
	assert.Equal(t, PerkAttackDamage, perks[0].Type())
	assert.Equal(t, 2.0, perks[0].Value())
	assert.Equal(t, SkillNone, perks[0].Skill())

	assert.Equal(t, PerkCritChance, perks[1].Type())
	assert.InDelta(t, 0.5, perks[1].Value(), 1e-9)
	assert.Equal(t, SkillSword, perks[1].Skill())

	assert.Equal(t, PerkSkillBonus, perks[2].Type())
	assert.Equal(t, AugmentCooldown, perks[2].Augment())
	assert.Equal(t, uint32(23), perks[2].SpellID())

	lvl2 := swords.Level(2)
	require.NotNil(t, lvl2)
	bestiary, ok := lvl2.Perk(1)
	require.True(t, ok)
	assert.Equal(t, uint32(117), bestiary.BestiaryID())
	assert.Equal(t, uint32(3), bestiary.Range())
	assert.InDelta(t, 4.25, bestiary.Value(), 1e-9)
	assert.Equal(t, DamageNone, bestiary.DamageType())
}

func TestBuild_LevelIDsNeedNotBeContiguous(t *testing.T) {
	t.Parallel()

	wands := mustBuild(t, sampleXML).Get(20)
	require.NotNil(t, wands)

	assert.Equal(t, 3, wands.MaxLevel(), "level ids {1,5,9} give max level 3")
	require.NotNil(t, wands.Level(5))
	assert.Equal(t, 0, wands.Level(5).MaxPerks())
	assert.Nil(t, wands.Level(2))
	assert.Nil(t, wands.Level(3))

	ids := make([]uint8, 0, 3)
	for _, l := range wands.Levels() {
		ids = append(ids, l.ID())
	}
	assert.Equal(t, []uint8{1, 5, 9}, ids)
}

func TestBuild_UnknownTokensFallBack(t *testing.T) {
	t.Parallel()

	perk, ok := mustBuild(t, sampleXML).Get(20).Level(9).Perk(1)
	require.True(t, ok)
	assert.Equal(t, PerkAttackDamage, perk.Type())
	assert.Equal(t, 7.0, perk.Value())
	assert.Equal(t, SkillNone, perk.Skill())
	assert.Equal(t, DamageNone, perk.DamageType())
}

func TestBuild_ElementOverridesDamageType(t *testing.T) {
	t.Parallel()

	doc := `<proficiencies><proficiency id="1"><level id="1">
		<perk type="critChanceSpell" value="1" element="ice" damageType="fire"/>
		<perk type="critChanceSpell" value="1" damageType="earth"/>
		<perk type="critChanceSpell" value="1" element="holy"/>
	</level></proficiency></proficiencies>`

	perks := mustBuild(t, doc).Get(1).Level(1).Perks()
	require.Len(t, perks, 3)
	assert.Equal(t, DamageIce, perks[0].DamageType())
	assert.Equal(t, DamageEarth, perks[1].DamageType())
	assert.Equal(t, DamageHoly, perks[2].DamageType())
}

func TestBuild_DuplicateLaterWins(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	doc := `<proficiencies>
		<proficiency id="7"><level id="1"/></proficiency>
		<proficiency id="8"><level id="1"/></proficiency>
		<proficiency id="7"><level id="1"/><level id="2"/><level id="3"/></proficiency>
	</proficiencies>`

	cat, err := Build(strings.NewReader(doc), logger)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, 3, cat.Get(7).MaxLevel())
	assert.Equal(t, []uint32{7}, cat.Duplicates())
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "proficiencyId=7")
}

func TestBuild_EmptyRoot(t *testing.T) {
	t.Parallel()

	cat := mustBuild(t, `<proficiencies/>`)
	assert.Equal(t, 0, cat.Len())
}

func TestBuild_ParseFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"unclosed", `<proficiencies><proficiency id="1">`},
		{"mismatched tags", `<proficiencies><proficiency id="1"></level></proficiencies>`},
		{"garbage after root", `<proficiencies/></oops>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cat, err := Build(strings.NewReader(tt.doc), discardLogger)
			require.Error(t, err)
			assert.Nil(t, cat)

			var pe *ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}
}

func TestBuild_InvalidNumbersAreZeroed(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	doc := `<proficiencies>
		<proficiency id="10"><level id="1"><perk type="defense" value="3"/></level></proficiency>
		<proficiency id="20">
			<level id="300">
				<perk type="critChance" value="5%" range="-1" spellId="x" bestiaryId=" 42 "/>
			</level>
		</proficiency>
		<proficiency id="abc"><level id="1"/></proficiency>
	</proficiencies>`

	cat, err := Build(strings.NewReader(doc), logger)
	require.NoError(t, err)
	assert.Equal(t, 3, cat.Len())

	require.NotNil(t, cat.Get(10), "a bad number elsewhere must not drop other proficiencies")
	assert.Equal(t, 1, cat.Get(10).Level(1).MaxPerks())

	bad := cat.Get(20)
	require.NotNil(t, bad)
	lvl := bad.Level(0)
	require.NotNil(t, lvl, "level id 300 overflows and becomes 0")
	perk, ok := lvl.Perk(1)
	require.True(t, ok)
	assert.Equal(t, PerkCritChance, perk.Type())
	assert.Equal(t, 0.0, perk.Value())
	assert.Equal(t, uint32(0), perk.Range())
	assert.Equal(t, uint32(0), perk.SpellID())
	assert.Equal(t, uint32(42), perk.BestiaryID())

	assert.NotNil(t, cat.Get(0), "unparsable proficiency id becomes 0")

	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), `value=5%`)
	assert.Contains(t, logs.String(), "proficiencyId=20")
}

func TestBuild_MissingValueIsZero(t *testing.T) {
	t.Parallel()

	perk, ok := mustBuild(t, `<proficiencies><proficiency id="1"><level id="1">
		<perk type="defense"/>
	</level></proficiency></proficiencies>`).Get(1).Level(1).Perk(1)
	require.True(t, ok)
	assert.Equal(t, 0.0, perk.Value())
}

func TestBuild_WrongRootIsEmpty(t *testing.T) {
	t.Parallel()

	cat := mustBuild(t, `<items><proficiency id="1"><level id="1"/></proficiency></items>`)
	assert.Equal(t, 0, cat.Len())
}

func perkLevelXML(perks int) string {
	var b strings.Builder
	b.WriteString(`<proficiencies><proficiency id="1"><level id="1">`)
	for range perks {
		b.WriteString(`<perk type="defense" value="1"/>`)
	}
	b.WriteString(`</level></proficiency></proficiencies>`)
	return b.String()
}

func TestBuild_MaxPerksPerLevel(t *testing.T) {
	t.Parallel()

	lvl := mustBuild(t, perkLevelXML(MaxPerksPerLevel)).Get(1).Level(1)
	require.NotNil(t, lvl)
	assert.Equal(t, MaxPerksPerLevel, lvl.MaxPerks())
	for i, p := range lvl.Perks() {
		require.Equal(t, uint8(i+1), p.Slot())
	}
}

func TestBuild_TooManyPerksPerLevel(t *testing.T) {
	t.Parallel()

	for _, n := range []int{MaxPerksPerLevel + 1, MaxPerksPerLevel + 2} {
		cat, err := Build(strings.NewReader(perkLevelXML(n)), discardLogger)
		require.Error(t, err, "%d perks", n)
		assert.Nil(t, cat)

		var pe *ParseError
		assert.ErrorAs(t, err, &pe)
	}
}

func TestBuildFile(t *testing.T) {
	t.Parallel()

	core := t.TempDir()
	writeDefinitions(t, core, sampleXML)

	cat, err := BuildFile(DefinitionsPath(core), discardLogger)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
}

func TestBuildFile_Errors(t *testing.T) {
	t.Parallel()

	core := t.TempDir()
	path := DefinitionsPath(core)

	_, err := BuildFile(path, discardLogger)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	writeDefinitions(t, core, "<proficiencies>")
	_, err = BuildFile(path, discardLogger)
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path)
	assert.Contains(t, err.Error(), path)
}

func TestBuild_Latin1Encoding(t *testing.T) {
	t.Parallel()

	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<proficiencies><proficiency id=\"3\" name=\"Espadas \xe9picas\"><level id=\"1\"/></proficiency></proficiencies>"

	cat := mustBuild(t, doc)
	require.NotNil(t, cat.Get(3))
	assert.Equal(t, "Espadas épicas", cat.Get(3).Name())
}

func TestDefinitionsPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, filepath.Join("data", "items", "proficiencies.xml"), DefinitionsPath("data"))
}

// genProficiency describes one <proficiency> element for property tests.
type genProficiency struct {
	id     uint32
	levels [][]string // level → perk types
}

func renderXML(profs []genProficiency) string {
	var b strings.Builder
	b.WriteString("<proficiencies>\n")
	for _, p := range profs {
		fmt.Fprintf(&b, "<proficiency id=\"%d\">\n", p.id)
		for li, perks := range p.levels {
			// Sparse level ids: 1, 4, 7...
			fmt.Fprintf(&b, "<level id=\"%d\">\n", li*3+1)
			for pi, typ := range perks {
				fmt.Fprintf(&b, "<perk type=\"%s\" value=\"%d\"/>\n", typ, pi)
			}
			b.WriteString("</level>\n")
		}
		b.WriteString("</proficiency>\n")
	}
	b.WriteString("</proficiencies>\n")
	return b.String()
}

func TestBuild_Properties(t *testing.T) {
	tokens := append(PerkTypes.Tokens(), "bogus")

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(rt, "proficiencies")
		profs := make([]genProficiency, n)
		for i := range profs {
			profs[i].id = rapid.Uint32Range(1, 6).Draw(rt, "id")
			levels := rapid.IntRange(0, 5).Draw(rt, "levels")
			profs[i].levels = make([][]string, levels)
			for l := range profs[i].levels {
				profs[i].levels[l] = rapid.SliceOfN(rapid.SampledFrom(tokens), 0, 6).Draw(rt, "perks")
			}
		}

		cat, err := Build(strings.NewReader(renderXML(profs)), discardLogger)
		if err != nil {
			rt.Fatalf("Build: %v", err)
		}

		last := make(map[uint32]genProficiency, n)
		for _, p := range profs {
			last[p.id] = p
		}
		if cat.Len() != len(last) {
			rt.Fatalf("Len() = %d; want %d distinct ids", cat.Len(), len(last))
		}
		if len(cat.Duplicates()) != n-len(last) {
			rt.Fatalf("Duplicates() = %v; want %d entries", cat.Duplicates(), n-len(last))
		}

		for id, want := range last {
			got := cat.Get(id)
			if got == nil || got.ID() != id {
				rt.Fatalf("Get(%d) = %v", id, got)
			}
			if got.MaxLevel() != len(want.levels) {
				rt.Fatalf("proficiency %d MaxLevel() = %d; want %d", id, got.MaxLevel(), len(want.levels))
			}
			for li, lvl := range got.Levels() {
				if lvl.MaxPerks() != len(want.levels[li]) {
					rt.Fatalf("level %d MaxPerks() = %d; want %d", lvl.ID(), lvl.MaxPerks(), len(want.levels[li]))
				}
				for pi, perk := range lvl.Perks() {
					if int(perk.Slot()) != pi+1 {
						rt.Fatalf("perk %d slot = %d; want %d", pi, perk.Slot(), pi+1)
					}
					if perk.Type() != PerkTypes.Translate(want.levels[li][pi]) {
						rt.Fatalf("perk %d type = %v; want %q", pi, perk.Type(), want.levels[li][pi])
					}
				}
			}
		}
	})
}

// writeDefinitions writes doc to <core>/items/proficiencies.xml.
func writeDefinitions(t *testing.T, core, doc string) {
	t.Helper()
	path := DefinitionsPath(core)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
}
