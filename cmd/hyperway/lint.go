package main

import (
	"os"

	"github.com/aretw0/hyperway/internal/cli"
	"github.com/spf13/cobra"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check a page tree for broken links and invalid actions",
	Long: `Crawls the page templates under --dir from --start, following local anchors
and form actions. Every data-on-* attribute must decode to known operations.
With --graph a Mermaid flowchart is printed; --session highlights the pages a
saved session visited.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closeLog, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closeLog()

		opts := cli.LintOptions{}
		opts.Dir, _ = cmd.Flags().GetString("dir")
		opts.Start, _ = cmd.Flags().GetString("start")
		opts.Graph, _ = cmd.Flags().GetBool("graph")
		opts.SessionID, _ = cmd.Flags().GetString("session")
		if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
			cfg.RedisAddr = addr
		}
		return cli.Lint(cmd.Context(), cfg, logger, opts, os.Stdout, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().String("dir", ".", "Directory holding the page templates")
	lintCmd.Flags().String("start", "/", "Path the crawl starts from")
	lintCmd.Flags().Bool("graph", false, "Print a Mermaid flowchart of the pages")
	lintCmd.Flags().String("session", "", "Highlight the history of this saved session")
	lintCmd.Flags().String("redis", "", "Redis address for the snapshot store")
}
