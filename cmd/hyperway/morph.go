package main

import (
	"os"

	"github.com/aretw0/hyperway/internal/cli"
	"github.com/spf13/cobra"
)

var morphCmd = &cobra.Command{
	Use:   "morph LIVE NEW",
	Short: "Reconcile the NEW page into the LIVE page and print the result",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, closeLog, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closeLog()
		return cli.Morph(logger, args[0], args[1], os.Stdout, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(morphCmd)
}
