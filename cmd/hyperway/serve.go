package main

import (
	"net"
	"os"

	"github.com/aretw0/hyperway/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a directory of HTML pages",
	Long: `Serves DIR over HTTP: /a renders a.html or a/index.html as a Go template.
Prometheus metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, closeLog, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closeLog()

		dir, _ := cmd.Flags().GetString("dir")
		port, _ := cmd.Flags().GetString("port")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Serve(ctx, logger, dir, net.JoinHostPort("", port), os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("dir", ".", "Directory containing the pages")
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
