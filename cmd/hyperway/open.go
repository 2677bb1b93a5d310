package main

import (
	"os"

	"github.com/aretw0/hyperway/internal/cli"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open [URL]",
	Short: "Open a page, replay interactions and print the result",
	Long: `Opens URL as a full page load, applies --input values, then --click targets,
then --submit, waiting for every navigation to settle. With --session the page
is resumed from and saved to the snapshot store (Redis when redis_addr is set).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closeLog, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closeLog()

		opts := cli.OpenOptions{}
		if len(args) == 1 {
			opts.URL = args[0]
		}
		opts.Inputs, _ = cmd.Flags().GetStringArray("input")
		opts.Clicks, _ = cmd.Flags().GetStringArray("click")
		opts.Submit, _ = cmd.Flags().GetString("submit")
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Markdown, _ = cmd.Flags().GetBool("markdown")
		if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
			cfg.RedisAddr = addr
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Open(ctx, cfg, logger, opts, os.Stdout, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().StringArray("input", nil, "Set a field value before clicking (id=value, repeatable)")
	openCmd.Flags().StringArray("click", nil, "Click the element with this id (repeatable)")
	openCmd.Flags().String("submit", "", "Submit the form with this id")
	openCmd.Flags().String("session", "", "Resume and save the session under this id")
	openCmd.Flags().String("redis", "", "Redis address for the snapshot store")
	openCmd.Flags().Bool("markdown", false, "Print the page outline instead of the HTML")
}
