package cmd

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/corey/occur/internal/adapters/web"
	"github.com/corey/occur/internal/app"
	"github.com/corey/occur/internal/ports"
	"github.com/spf13/cobra"
)

var (
	searchPatternList string
	searchPatternFile string
	searchEngine      string
	searchAlphabet    string
	searchPolicy      string
	searchMaxLen      int
	searchEmitEmpty   bool
	searchAllowEmpty  bool
	searchSuppressAdj bool
	searchVerify      bool
	searchWatch       bool
	searchNoHistory   bool
	searchTime        bool
	searchColor       string
)

var searchCmd = &cobra.Command{
	Use:   "search [flags] <textfile> [pattern ...]",
	Short: "Find every occurrence of every pattern in a text file",
	Long: `Scans textfile once and prints, per pattern in input order, the 0-based
offsets of every occurrence, overlaps included:

  he: 2 11
  she: 1

Patterns come from the arguments, -p (comma-separated) and -P (one per line).
textfile "-" reads stdin. Exit status is 0 if anything matched, 1 if nothing
did, 2 on error.`,
	Args:          cobra.MinimumNArgs(1),
	RunE:          runSearch,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	f := searchCmd.Flags()
	f.StringVarP(&searchPatternList, "patterns", "p", "", "Comma-separated patterns")
	f.StringVarP(&searchPatternFile, "pattern-file", "P", "", "File with one pattern per line")
	f.StringVar(&searchEngine, "engine", app.DefaultEngine, "Engine: "+strings.Join(app.EngineNames(), ", "))
	f.StringVar(&searchAlphabet, "alphabet", "bytes", "Alphabet: letters, alnum, printable, bytes (append -folded to ignore ASCII case)")
	f.StringVar(&searchPolicy, "policy", "drop", "Symbols outside the alphabet: drop, reject, collapse")
	f.IntVar(&searchMaxLen, "max-pattern-length", 0, "Reject patterns longer than N bytes (0 = unbounded)")
	f.BoolVar(&searchEmitEmpty, "emit-empty", false, "Print patterns that have no occurrences")
	f.BoolVar(&searchAllowEmpty, "allow-empty", false, "Accept the empty pattern (matches at every offset)")
	f.BoolVar(&searchSuppressAdj, "suppress-adjacent", false, "Drop offsets directly following a reported one")
	f.BoolVar(&searchVerify, "verify", false, "Cross-check the result against the naive engine")
	f.BoolVarP(&searchWatch, "watch", "w", false, "Re-run whenever textfile or the pattern file changes")
	f.BoolVar(&searchNoHistory, "no-history", false, "Do not record this run")
	f.BoolVar(&searchTime, "time", false, "Print a timing summary to stderr")
	f.StringVar(&searchColor, "color", "auto", "Color output: auto, always, never")
}

func runSearch(cmd *cobra.Command, args []string) error {
	textFile := args[0]
	if searchWatch && textFile == "-" {
		return failed(fmt.Errorf("--watch needs a text file, not stdin"))
	}

	color, err := resolveColor(searchColor)
	if err != nil {
		return failed(err)
	}

	a, err := openApp(searchNoHistory)
	if err != nil {
		return failed(err)
	}
	defer a.Close()

	once := func(ctx context.Context) (*ports.Run, error) {
		req, err := buildRequest(textFile, args[1:])
		if err != nil {
			return nil, err
		}
		run, err := a.Search(ctx, req)
		if err != nil {
			return nil, err
		}
		writeOccurrences(cmd.OutOrStdout(), run, searchEmitEmpty, color)
		if searchTime {
			fmt.Fprintln(cmd.ErrOrStderr(), formatSummary(run, color))
		}
		return run, nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !searchWatch {
		run, err := once(ctx)
		if err != nil {
			return failed(err)
		}
		if run.Total() == 0 {
			return exitError{code: 1}
		}
		return nil
	}
	return watchSearch(ctx, a, cmd.ErrOrStderr(), textFile, once)
}

// watchSearch runs once, then again on every change until ctx is done.
// Errors from individual runs are reported and the watch continues.
func watchSearch(ctx context.Context, a *app.App, errOut io.Writer, textFile string, once func(context.Context) (*ports.Run, error)) error {
	files := []string{textFile}
	if searchPatternFile != "" {
		files = append(files, searchPatternFile)
	}
	w, err := a.NewWatcher()
	if err != nil {
		return failed(err)
	}
	defer w.Stop()

	changed := make(chan string, 1)
	if err := w.Watch(files, func(path string) {
		select {
		case changed <- path:
		default:
		}
	}); err != nil {
		return failed(err)
	}

	if _, err := once(ctx); err != nil {
		fmt.Fprintf(errOut, "occur: %v\n", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changed:
			a.Log.Info("changed: %s", path)
			fmt.Fprintf(errOut, "%s── %s changed%s\n", colorGray, path, colorReset)
			if _, err := once(ctx); err != nil {
				fmt.Fprintf(errOut, "occur: %v\n", err)
			}
		}
	}
}

// buildRequest reads the text and collects patterns from the arguments,
// -p and -P, in that order.
func buildRequest(textFile string, argPatterns []string) (ports.SearchRequest, error) {
	text, err := readText(textFile)
	if err != nil {
		return ports.SearchRequest{}, err
	}

	patterns := append([]string(nil), argPatterns...)
	patterns = append(patterns, web.SplitPatterns(searchPatternList)...)
	if searchPatternFile != "" {
		fromFile, err := readPatternFile(searchPatternFile, searchAllowEmpty)
		if err != nil {
			return ports.SearchRequest{}, err
		}
		patterns = append(patterns, fromFile...)
	}

	source := textFile
	if textFile == "-" {
		source = "stdin"
	}
	return ports.SearchRequest{
		Source:   source,
		Text:     text,
		Patterns: patterns,
		Engine:   searchEngine,
		Options: ports.MatchOptions{
			Alphabet:         searchAlphabet,
			Policy:           searchPolicy,
			MaxPatternLength: searchMaxLen,
			AllowEmpty:       searchAllowEmpty,
		},
		SuppressAdjacent: searchSuppressAdj,
		Verify:           searchVerify,
		NoHistory:        searchNoHistory,
	}, nil
}

func readText(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return data, nil
}

// readPatternFile returns one pattern per line. A trailing \r is stripped.
// Blank lines are skipped unless keepBlank is set.
func readPatternFile(path string, keepBlank bool) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" && !keepBlank {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	return out, nil
}
