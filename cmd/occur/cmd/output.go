package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/corey/occur/internal/domain/automaton"
	"github.com/corey/occur/internal/ports"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// writeOccurrences prints one line per pattern in input order:
//
//	pattern: 3 17 42
//
// Patterns without occurrences are skipped unless emitEmpty is set.
func writeOccurrences(w io.Writer, run *ports.Run, emitEmpty, color bool) {
	occ := &automaton.Occurrences{Patterns: run.Patterns, Offsets: run.Offsets}
	occ.Each(emitEmpty, func(_ int, p string, offs []int) {
		var sb strings.Builder
		if color {
			sb.WriteString(colorCyan + p + colorReset + ":")
		} else {
			sb.WriteString(p + ":")
		}
		for _, off := range offs {
			sb.WriteByte(' ')
			sb.WriteString(strconv.Itoa(off))
		}
		sb.WriteByte('\n')
		io.WriteString(w, sb.String())
	})
}

// formatSummary is the --time line.
//
//	⚡ 12 matches │ 4 patterns │ 1.2 MB │ aho │ 3.1ms
func formatSummary(run *ports.Run, color bool) string {
	bold, reset := "", ""
	if color {
		bold, reset = colorBold, colorReset
	}
	return fmt.Sprintf("%s⚡ %d matches%s │ %d patterns │ %s │ %s │ %s",
		bold, run.Total(), reset, len(run.Patterns), formatBytes(run.TextBytes), run.Engine,
		formatElapsed(time.Duration(run.ElapsedNs)))
}

// formatRun is one line of `occur history`.
func formatRun(run *ports.Run, color bool) string {
	id := fmt.Sprintf("#%d", run.ID)
	if color {
		id = colorYellow + id + colorReset
	}
	ts := time.Unix(run.Timestamp, 0).Format("2006-01-02 15:04:05")
	patterns := strings.Join(run.Patterns, ",")
	if len(patterns) > 40 {
		patterns = patterns[:37] + "..."
	}
	return fmt.Sprintf("%s  %s  %-5s  %s  %d matches  [%s]  %s",
		id, ts, run.Engine, run.Source, run.Total(), patterns,
		formatElapsed(time.Duration(run.ElapsedNs)))
}

func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
