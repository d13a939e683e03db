package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/udisondev/proficiency/internal/proficiency"
)

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show [proficiency-id...]",
		Short: "List loaded proficiencies or print their levels and perks",
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := opts.coreDirectory()
			if err != nil {
				return err
			}
			registry := proficiency.NewRegistry(core, slog.Default())
			if err := registry.Load(false); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				snap := registry.Snapshot()
				for _, id := range snap.IDs() {
					p := snap.Get(id)
					fmt.Fprintf(out, "%d\t%s\tlevels=%d\n", p.ID(), p.Name(), p.MaxLevel())
				}
				return nil
			}

			for _, arg := range args {
				id, err := strconv.ParseUint(arg, 10, 32)
				if err != nil {
					return fmt.Errorf("invalid proficiency id %q: %w", arg, err)
				}
				p := registry.Get(uint32(id))
				if p == nil {
					return fmt.Errorf("proficiency %d not found in %s", id, registry.Path())
				}
				printProficiency(out, p)
			}
			return nil
		},
	}
}

func printProficiency(out io.Writer, p *proficiency.Proficiency) {
	fmt.Fprintf(out, "proficiency %d %q: %d levels\n", p.ID(), p.Name(), p.MaxLevel())
	for _, lvl := range p.Levels() {
		fmt.Fprintf(out, "  level %d: %d perks\n", lvl.ID(), lvl.MaxPerks())
		for _, perk := range lvl.Perks() {
			printPerk(out, perk)
		}
	}
}

func printPerk(out io.Writer, perk proficiency.Perk) {
	fmt.Fprintf(out, "    [%d] %s %g", perk.Slot(), perk.Type(), perk.Value())
	if perk.Skill() != proficiency.SkillNone {
		fmt.Fprintf(out, " skill=%s", perk.Skill())
	}
	if perk.DamageType() != proficiency.DamageNone {
		fmt.Fprintf(out, " damageType=%s", perk.DamageType())
	}
	if perk.Augment() != proficiency.AugmentNone {
		fmt.Fprintf(out, " augment=%s", perk.Augment())
	}
	if perk.Range() != 0 {
		fmt.Fprintf(out, " range=%d", perk.Range())
	}
	if perk.SpellID() != 0 {
		fmt.Fprintf(out, " spellId=%d", perk.SpellID())
	}
	if perk.BestiaryID() != 0 {
		fmt.Fprintf(out, " bestiaryId=%d", perk.BestiaryID())
	}
	fmt.Fprintln(out)
}
