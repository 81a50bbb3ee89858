package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeAPI     LogType = "API"
	TypeError   LogType = "ERR"
)

// skipped are chatty disgo gateway/rest messages.
var skipped = []string{
	"locking buckets",
	"unlocking buckets",
	"gateway event",
	"cleaning up bucket",
	"cleaned up rate limit buckets",
	"binary message received",
	"received gateway message",
	"opening gateway connection",
	"locking gateway rate limiter",
	"unlocking gateway rate limiter",
	"sending gateway command",
	"new request",
	"new response",
	"locking rest bucket",
	"unlocking rest bucket",
	"rate limit response headers",
	"sending heartbeat",
}

type CustomHandler struct {
	opts   *slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	color  bool
	attrs  []slog.Attr
	groups []string
}

// NewHandler writes coloured lines to stdout at the given level.
func NewHandler(level slog.Leveler) *CustomHandler {
	return NewWriterHandler(os.Stdout, level, true)
}

func NewWriterHandler(out io.Writer, level slog.Leveler, color bool) *CustomHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &CustomHandler{
		opts:  &slog.HandlerOptions{Level: level},
		out:   out,
		mu:    &sync.Mutex{},
		color: color,
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &CustomHandler{opts: h.opts, out: h.out, mu: h.mu, color: h.color, attrs: merged, groups: h.groups}
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	groups := append(append([]string{}, h.groups...), name)
	return &CustomHandler{opts: h.opts, out: h.out, mu: h.mu, color: h.color, attrs: h.attrs, groups: groups}
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(&r) {
		return nil
	}

	var levelColor, levelText string
	switch {
	case r.Level >= slog.LevelError:
		levelColor, levelText = colorRed, "ERROR"
	case r.Level >= slog.LevelWarn:
		levelColor, levelText = colorYellow, "WARN"
	case r.Level >= slog.LevelInfo:
		levelColor, levelText = colorGreen, "INFO"
	default:
		levelColor, levelText = colorPurple, "DEBUG"
	}

	fields := collect(&r)

	message := r.Message
	if r.Level >= slog.LevelError {
		location := fields["error_location"]
		if location == "" {
			if file, line := sourceLocation(); file != "" {
				location = fmt.Sprintf("%s:%d", file, line)
			}
		}
		if location != "" {
			message = fmt.Sprintf("%s (%s)", message, location)
		}
		if details := fields["error"]; details != "" {
			message = fmt.Sprintf("%s: %s", message, details)
		}
	}

	if name := fields["name"]; name != "" {
		who := fields["user_name"]
		if who == "" {
			who = fields["user_id"]
		}
		if who != "" {
			message = fmt.Sprintf("%s [%s by %s]", message, name, who)
		} else {
			message = fmt.Sprintf("%s [%s]", message, name)
		}
	}

	if status := fields["status"]; status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, status)
	}

	if took := fields["took"]; took != "" {
		message = fmt.Sprintf("%s (took %s)", message, took)
	}

	var extra strings.Builder
	for _, attr := range h.attrs {
		if !isInternalAttr(attr.Key) {
			fmt.Fprintf(&extra, " %s=%v", attr.Key, attr.Value)
		}
	}

	line := fmt.Sprintf("[Bucksy] [%s] [%s] [%s] %s%s",
		r.Time.Format("15:04:05"), levelText, logType(fields["type"]), message, extra.String())
	if h.color {
		line = fmt.Sprintf("%s[Bucksy] [%s] [%s%s%s] [%s] %s%s%s",
			colorWhite, r.Time.Format("15:04:05"), levelColor, levelText, colorWhite,
			logType(fields["type"]), message, extra.String(), colorReset)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.out, line)
	return err
}

func shouldSkipLog(r *slog.Record) bool {
	msg := strings.ToLower(r.Message)
	for _, skip := range skipped {
		if strings.Contains(msg, skip) {
			return true
		}
	}
	return false
}

func collect(r *slog.Record) map[string]string {
	fields := make(map[string]string, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "type", "name", "user_name", "user_id", "status", "error", "error_location":
			fields[a.Key] = a.Value.String()
		case "took":
			if a.Value.Kind() == slog.KindDuration {
				fields[a.Key] = a.Value.Duration().Round(time.Millisecond).String()
			} else {
				fields[a.Key] = a.Value.String()
			}
		}
		return true
	})
	return fields
}

func logType(value string) LogType {
	switch value {
	case "cmd":
		return TypeCommand
	case "db":
		return TypeDB
	case "api":
		return TypeAPI
	case "error":
		return TypeError
	}
	return TypeSystem
}

func sourceLocation() (string, int) {
	// Handle <- slog.(*Logger).log <- slog.Error <- caller
	_, file, line, ok := runtime.Caller(4)
	if !ok {
		return "", 0
	}
	return filepath.Base(file), line
}

func isInternalAttr(key string) bool {
	switch key {
	case "type", "name", "user_name", "status":
		return true
	}
	return false
}
