package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// NewSlogHandler returns a slog.Handler that forwards records to l.
func NewSlogHandler(l *Logger) slog.Handler {
	return &slogAdapter{log: l}
}

// Slog returns a *slog.Logger backed by l.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(NewSlogHandler(l))
}

type slogAdapter struct {
	log    *Logger
	groups []string
	attrs  []slog.Attr
}

func (h *slogAdapter) Enabled(_ context.Context, level slog.Level) bool {
	current := h.log.Level()
	return current != LevelNone && fromSlog(level) >= current
}

func (h *slogAdapter) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)
	write := func(a slog.Attr) bool {
		writeAttr(&sb, a, h.groups)
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	record.Attrs(write)
	h.log.log(fromSlog(record.Level), "%s", sb.String())
	return nil
}

func (h *slogAdapter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &slogAdapter{
		log:    h.log,
		groups: h.groups,
		attrs:  append(append([]slog.Attr(nil), h.attrs...), attrs...),
	}
}

func (h *slogAdapter) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &slogAdapter{
		log:    h.log,
		groups: append(append([]string(nil), h.groups...), name),
		attrs:  h.attrs,
	}
}

func fromSlog(level slog.Level) Level {
	switch {
	case level >= slog.LevelError:
		return LevelError
	case level >= slog.LevelWarn:
		return LevelWarn
	case level >= slog.LevelInfo:
		return LevelInfo
	default:
		return LevelDebug
	}
}

func writeAttr(sb *strings.Builder, attr slog.Attr, groups []string) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		nested := append(append([]string(nil), groups...), attr.Key)
		for _, a := range attr.Value.Group() {
			writeAttr(sb, a, nested)
		}
		return
	}
	key := strings.Join(append(append([]string(nil), groups...), attr.Key), ".")
	fmt.Fprintf(sb, " %s=%v", key, attr.Value)
}
