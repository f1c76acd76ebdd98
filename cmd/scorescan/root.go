package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "scorescan",
		Short:         "Identify sheet music and find matching performance videos",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newScanCommand(&configFlag))
	rootCmd.AddCommand(newInstrumentsCommand())
	rootCmd.AddCommand(newConfigCommand(&configFlag))

	return rootCmd
}
