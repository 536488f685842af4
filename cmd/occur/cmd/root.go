package cmd

import (
	"fmt"
	"os"

	"github.com/corey/occur/internal/app"
	"github.com/corey/occur/internal/logger"
	"github.com/spf13/cobra"
)

// defaultLogFile is what a bare --log-file resolves from.
const defaultLogFile = "default"

var (
	logLevel string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "occur",
	Short: "Multi-pattern occurrence finder",
	Long:  "Finds every occurrence of every pattern in a text with a single Aho-Corasick pass.",

	SilenceErrors: true,
	SilenceUsage:  true,
}

// projectRoot returns the project root (cwd by default).
func projectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}
	return dir, nil
}

// openApp wires an App for the current project from the global flags.
func openApp(noHistory bool) (*app.App, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	file := logFile
	if file == defaultLogFile {
		file = app.NewPaths(root).LogFile
	}
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return app.New(app.Config{
		ProjectRoot: root,
		LogLevel:    level,
		LogFile:     file,
		LogWriter:   os.Stderr,
		NoHistory:   noHistory,
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error, none")
	pf.StringVar(&logFile, "log-file", "", "Append logs to this file instead of stderr (bare flag: .occur/log/occur.log)")
	pf.Lookup("log-file").NoOptDefVal = defaultLogFile

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}
