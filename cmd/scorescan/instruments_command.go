package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"scorescan/internal/strategy"
)

func newInstrumentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "instruments",
		Short: "List the supported instruments",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			titleCaser := cases.Title(language.English)

			rows := make([][]string, 0, len(strategy.SupportedInstruments))
			for _, name := range strategy.SupportedInstruments {
				display := titleCaser.String(name)
				marker := ""
				if name == strategy.DefaultInstrument {
					marker = "default"
				}
				rows = append(rows, []string{display, marker})
			}
			fmt.Fprintln(out, renderTable([]string{"Instrument", ""}, rows, []columnAlignment{alignLeft, alignLeft}))
			fmt.Fprintf(out, "%d instruments supported. Unlisted names are searched as given.\n", len(strategy.SupportedInstruments))
			return nil
		},
	}
}
