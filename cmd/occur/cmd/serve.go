package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corey/occur/internal/adapters/web"
	"github.com/spf13/cobra"
)

var (
	servePort      int
	serveNoHistory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search page and JSON API on localhost",
	Long: `Starts an HTTP server bound to 127.0.0.1 with an upload page at / and
a JSON API under /api. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: derived from the project path)")
	serveCmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "Do not record runs")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(serveNoHistory)
	if err != nil {
		return failed(err)
	}
	defer a.Close()

	port := servePort
	if port == 0 {
		root, err := projectRoot()
		if err != nil {
			return failed(err)
		}
		port = web.DefaultPort(root)
	}
	if err := a.WebServer.Start(port); err != nil {
		return failed(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s⚡ occur%s serving %s\n", colorBold, colorReset, a.WebServer.URL())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
