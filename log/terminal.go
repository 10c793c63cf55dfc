package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// ANSI escape codes used by the terminal handler.
const (
	ansiReset  = "\033[0m"
	ansiGray   = "\033[37m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
)

// TerminalHandler is a slog.Handler that renders records as aligned
// plain-text lines:
//
//	[2024-01-01 12:00:00] INFO  message key=value
//
// With Color enabled the level name is tinted per severity. Attributes are
// appended as key=value pairs in the order they were logged.
type TerminalHandler struct {
	mu    *sync.Mutex
	out   io.Writer
	level slog.Level
	color bool
	attrs []slog.Attr
	group string
}

// NewTerminalHandler creates a TerminalHandler writing to out. Records below
// level are dropped.
func NewTerminalHandler(out io.Writer, level slog.Level, color bool) *TerminalHandler {
	return &TerminalHandler{
		mu:    new(sync.Mutex),
		out:   out,
		level: level,
		color: color,
	}
}

// Enabled implements slog.Handler.
func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle implements slog.Handler.
func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(r.Time.Format("2006-01-02 15:04:05"))
	b.WriteString("] ")

	// Pad the level name to 5 chars for column alignment.
	name := levelName(r.Level)
	if h.color {
		b.WriteString(levelColor(r.Level))
		fmt.Fprintf(&b, "%-5s", name)
		b.WriteString(ansiReset)
	} else {
		fmt.Fprintf(&b, "%-5s", name)
	}
	b.WriteString(" ")
	b.WriteString(r.Message)

	for _, attr := range h.attrs {
		writeAttr(&b, h.group, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		writeAttr(&b, h.group, attr)
		return true
	})
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

// WithAttrs implements slog.Handler.
func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	child := *h
	child.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &child
}

// WithGroup implements slog.Handler.
func (h *TerminalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	child := *h
	if h.group != "" {
		child.group = h.group + "." + name
	} else {
		child.group = name
	}
	return &child
}

func writeAttr(b *strings.Builder, group string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	if attr.Value.Kind() == slog.KindGroup {
		for _, sub := range attr.Value.Group() {
			writeAttr(b, key, sub)
		}
		return
	}
	b.WriteString(" ")
	b.WriteString(key)
	b.WriteString("=")
	fmt.Fprintf(b, "%v", attr.Value.Any())
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level >= slog.LevelInfo:
		return ansiGreen
	default:
		return ansiGray
	}
}

// LevelFromString parses a log level name. The match is case-insensitive;
// unrecognized strings return slog.LevelInfo.
func LevelFromString(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
