package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/udisondev/proficiency/internal/proficiency"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Parse a proficiencies.xml and report its contents",
		Long: `Parse a definitions document exactly as the server does and print counts.

Without an argument the file under <core-dir>/items/proficiencies.xml is used.
Exits non-zero if the document can't be parsed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				core, err := opts.coreDirectory()
				if err != nil {
					return err
				}
				path = proficiency.DefinitionsPath(core)
			}

			cat, err := proficiency.BuildFile(path, slog.Default())
			if err != nil {
				return err
			}

			var levels, perks int
			for _, id := range cat.IDs() {
				for _, lvl := range cat.Get(id).Levels() {
					levels++
					perks += lvl.MaxPerks()
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: ok\n", path)
			fmt.Fprintf(out, "proficiencies: %d\n", cat.Len())
			fmt.Fprintf(out, "levels: %d\n", levels)
			fmt.Fprintf(out, "perks: %d\n", perks)
			if dups := cat.Duplicates(); len(dups) > 0 {
				fmt.Fprintf(out, "duplicate ids (later wins): %v\n", dups)
			}
			return nil
		},
	}
}
