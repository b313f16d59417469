package main

import (
	"github.com/spf13/cobra"
)

// seedCmd groups the reference data subcommands.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load reference data",
	Long:  `Load reference data (countries, cities, organizers, tags) from YAML seed files.`,
	Run:   requireSubcommand,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
