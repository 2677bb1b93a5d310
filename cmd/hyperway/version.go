package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/hyperway"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hyperway",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hyperway version %s\n", strings.TrimSpace(hyperway.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
