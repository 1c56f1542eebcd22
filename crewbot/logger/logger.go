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
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand   LogType = "CMD"
	TypeComponent LogType = "COMP"
	TypeStore     LogType = "STORE"
	TypeDB        LogType = "DB"
	TypeSystem    LogType = "SYS"
	TypeError     LogType = "ERR"
)

type Options struct {
	Level     slog.Leveler
	AddSource bool
	NoColor   bool
}

// CustomHandler prints one colored line per record, tagged with the
// record's "type" attribute.
type CustomHandler struct {
	opts   Options
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

func NewHandler(opts Options) *CustomHandler {
	return NewHandlerWithWriter(os.Stdout, opts)
}

func NewHandlerWithWriter(out io.Writer, opts Options) *CustomHandler {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	return &CustomHandler{
		opts: opts,
		out:  out,
		mu:   &sync.Mutex{},
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &c
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.groups = append(append([]string{}, h.groups...), name)
	return &c
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

	ordered, fields := collect(h.attrs, &r)
	message := r.Message

	if r.Level >= slog.LevelError {
		if loc := fields["error_location"]; loc != "" {
			message = fmt.Sprintf("%s (%s)", message, loc)
		} else if h.opts.AddSource && r.PC != 0 {
			frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
			message = fmt.Sprintf("%s (%s:%d)", message, filepath.Base(frame.File), frame.Line)
		}
		if details := fields["error"]; details != "" {
			message = fmt.Sprintf("%s: %s", message, details)
		}
	}

	if name, user := fields["name"], fields["user_name"]; name != "" && user != "" {
		message = fmt.Sprintf("%s [%s by %s]", message, name, user)
	}
	if status := fields["status"]; status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, status)
	}
	if took := fields["took"]; took != "" {
		message = fmt.Sprintf("%s (took %s)", message, took)
	}

	var extra strings.Builder
	for _, kv := range ordered {
		if isInternalAttr(kv.key) {
			continue
		}
		fmt.Fprintf(&extra, " %s=%s", kv.key, kv.value)
	}

	line := fmt.Sprintf("%s[CrewBot] [%s] [%s%s%s] [%s] %s%s%s\n",
		colorWhite,
		r.Time.Format("15:04:05"),
		levelColor,
		levelText,
		colorWhite,
		logType(fields["type"]),
		message,
		extra.String(),
		colorReset,
	)
	if h.opts.NoColor {
		line = stripColors(line)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line)
	return err
}

type keyValue struct {
	key   string
	value string
}

// collect flattens handler and record attributes. Later values win.
func collect(handlerAttrs []slog.Attr, r *slog.Record) ([]keyValue, map[string]string) {
	var ordered []keyValue
	byKey := make(map[string]string)
	add := func(a slog.Attr) {
		v := a.Value.Resolve().String()
		if _, seen := byKey[a.Key]; !seen {
			ordered = append(ordered, keyValue{key: a.Key, value: v})
		}
		byKey[a.Key] = v
	}
	for _, a := range handlerAttrs {
		add(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		add(a)
		return true
	})
	return ordered, byKey
}

func logType(t string) LogType {
	switch t {
	case "cmd":
		return TypeCommand
	case "component", "modal":
		return TypeComponent
	case "store":
		return TypeStore
	case "db":
		return TypeDB
	case "error":
		return TypeError
	default:
		return TypeSystem
	}
}

func isInternalAttr(key string) bool {
	switch key {
	case "type", "name", "user_name", "status", "took", "error", "error_location":
		return true
	}
	return false
}

var skippedMessages = []string{
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

// shouldSkipLog drops disgo's per-request and per-heartbeat chatter.
func shouldSkipLog(r *slog.Record) bool {
	msg := strings.ToLower(r.Message)
	for _, skip := range skippedMessages {
		if strings.Contains(msg, skip) {
			return true
		}
	}
	return false
}

func stripColors(s string) string {
	for _, c := range []string{colorReset, colorRed, colorGreen, colorYellow, colorPurple, colorWhite} {
		s = strings.ReplaceAll(s, c, "")
	}
	return s
}
