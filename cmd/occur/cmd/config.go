package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/corey/occur/internal/app"
	"github.com/corey/occur/internal/domain/automaton"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows project root, data paths, engines, alphabets, and whether a server is running.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return failed(err)
	}
	p := app.NewPaths(root)
	out := cmd.OutOrStdout()

	server := fmt.Sprintf("%s✗ not running%s", colorYellow, colorReset)
	if data, err := os.ReadFile(p.PortFile); err == nil {
		server = fmt.Sprintf("%s✓ http://localhost:%s%s", colorGreen, strings.TrimSpace(string(data)), colorReset)
	}

	fmt.Fprintf(out, "%s⚡ occur config%s\n", colorBold, colorReset)
	fmt.Fprintf(out, "  Root:       %s\n", root)
	fmt.Fprintf(out, "  DB:         %s\n", p.DB)
	fmt.Fprintf(out, "  Log:        %s\n", p.LogFile)
	fmt.Fprintf(out, "  Engines:    %s (default %s)\n", strings.Join(app.EngineNames(), ", "), app.DefaultEngine)
	fmt.Fprintf(out, "  Alphabets:  %s (default bytes)\n", strings.Join(automaton.AlphabetNames(), ", "))
	fmt.Fprintf(out, "  Policies:   drop, reject, collapse (default drop)\n")
	fmt.Fprintf(out, "  Server:     %s\n", server)
	return nil
}
