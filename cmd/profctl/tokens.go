package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/udisondev/proficiency/internal/proficiency"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "tokens [perk|skill|damage|augment]",
		Short:     "Print recognized attribute tokens and their codes",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"perk", "skill", "damage", "augment"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := ""
			if len(args) == 1 {
				kind = args[0]
			}

			out := cmd.OutOrStdout()
			if kind == "" || kind == "perk" {
				printTable(out, proficiency.PerkTypes)
			}
			if kind == "" || kind == "skill" {
				printTable(out, proficiency.Skills)
			}
			if kind == "" || kind == "damage" {
				printTable(out, proficiency.DamageTypes)
			}
			if kind == "" || kind == "augment" {
				printTable(out, proficiency.Augments)
			}
			return nil
		},
	}
}

func printTable[T ~uint8](out io.Writer, table *proficiency.TokenTable[T]) {
	def := table.Default()
	fmt.Fprintf(out, "%s (default %d):\n", table.Kind(), def)
	for _, token := range table.Tokens() {
		fmt.Fprintf(out, "  %-22s %d\n", token, table.Translate(token))
	}
}
