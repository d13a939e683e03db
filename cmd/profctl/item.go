package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/udisondev/proficiency/internal/itemtable"
	"github.com/udisondev/proficiency/internal/proficiency"
)

func newItemCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "item <item-id> [level-id]",
		Short: "Resolve an item's proficiency and answer level/perk queries",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseUint(args[0], 10, 16)
			if err != nil {
				return fmt.Errorf("invalid item id %q: %w", args[0], err)
			}

			core, err := opts.coreDirectory()
			if err != nil {
				return err
			}
			items, err := itemtable.Load(itemtable.Path(core), slog.Default())
			if err != nil {
				return err
			}
			registry := proficiency.NewRegistry(core, slog.Default())
			if err := registry.Load(false); err != nil {
				return err
			}
			lookup := proficiency.NewLookup(registry, items, slog.Default())

			prof, err := lookup.Resolve(uint16(itemID))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "item %d → proficiency %d %q\n", itemID, prof.ID(), prof.Name())
			fmt.Fprintf(out, "max level: %d\n", lookup.MaxProficiencyLevelForItem(uint16(itemID)))

			if len(args) == 2 {
				level, err := strconv.ParseUint(args[1], 10, 8)
				if err != nil {
					return fmt.Errorf("invalid level id %q: %w", args[1], err)
				}
				lvl, err := lookup.ResolveLevel(uint16(itemID), uint8(level))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "level %d max perks: %d\n", lvl.ID(), lvl.MaxPerks())
				for _, perk := range lookup.PerksForItem(uint16(itemID), uint8(level)) {
					printPerk(out, perk)
				}
			}
			return nil
		},
	}
}
