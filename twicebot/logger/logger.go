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
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeJob     LogType = "JOB"
	TypeError   LogType = "ERR"
)

const prefix = "[TwiceBot]"

type Options struct {
	Level   slog.Leveler
	NoColor bool
	Output  io.Writer
}

// CustomHandler prints one colored line per record.
type CustomHandler struct {
	opts  Options
	mu    *sync.Mutex
	attrs []slog.Attr
	group string
}

func NewHandler(opts Options) *CustomHandler {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &CustomHandler{opts: opts, mu: &sync.Mutex{}}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr{}, h.attrs...), h.qualify(attrs)...)
	return &c
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	c := *h
	if c.group != "" {
		name = c.group + "." + name
	}
	c.group = name
	return &c
}

func (h *CustomHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.group == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.group + "." + a.Key, Value: a.Value}
	}
	return out
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(r.Message) {
		return nil
	}

	attrs := append([]slog.Attr{}, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify([]slog.Attr{a})...)
		return true
	})

	levelColor, levelText := levelStyle(r.Level)
	logType := getLogType(attrs)

	message := r.Message
	if r.Level >= slog.LevelError {
		if loc := getErrorLocation(attrs, r.PC); loc != "" {
			message = fmt.Sprintf("%s (%s)", message, loc)
		}
		if details := lookup(attrs, "error"); details != "" {
			message = fmt.Sprintf("%s: %s", message, details)
		}
	}

	if cmdName, userName := lookup(attrs, "name"), lookup(attrs, "user_name"); cmdName != "" && userName != "" {
		message = fmt.Sprintf("%s [%s by %s]", message, cmdName, userName)
	} else if cmdName != "" {
		message = fmt.Sprintf("%s [%s]", message, cmdName)
	}

	if status := lookup(attrs, "status"); status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, status)
	}

	var sb strings.Builder
	for _, a := range attrs {
		if isInternalAttr(a.Key) {
			continue
		}
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
	}

	line := fmt.Sprintf("%s [%s] [%s%s%s] [%s] %s%s",
		prefix,
		r.Time.Format("15:04:05"),
		levelColor, levelText, colorWhite,
		logType,
		message,
		sb.String(),
	)
	if h.opts.NoColor {
		line = stripColors(line)
	} else {
		line = colorWhite + line + colorReset
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.opts.Output, line)
	return err
}

func levelStyle(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return colorRed, "ERROR"
	case level >= slog.LevelWarn:
		return colorYellow, "WARN"
	case level >= slog.LevelInfo:
		return colorGreen, "INFO"
	default:
		return colorPurple, "DEBUG"
	}
}

var colorCodes = strings.NewReplacer(
	colorReset, "", colorRed, "", colorGreen, "", colorYellow, "",
	colorPurple, "", colorCyan, "", colorWhite, "",
)

func stripColors(s string) string {
	return colorCodes.Replace(s)
}

// Gateway chatter from disgo that floods the console at debug level.
var skippedMessages = []string{
	"locking buckets",
	"unlocking buckets",
	"gateway event",
	"cleaning up bucket",
	"cleaned up rate limit buckets",
	"binary message received",
	"received gateway message",
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

func shouldSkipLog(msg string) bool {
	msg = strings.ToLower(msg)
	for _, skip := range skippedMessages {
		if strings.Contains(msg, skip) {
			return true
		}
	}
	return false
}

func getLogType(attrs []slog.Attr) LogType {
	switch lookup(attrs, "type") {
	case "cmd":
		return TypeCommand
	case "db":
		return TypeDB
	case "job":
		return TypeJob
	case "error":
		return TypeError
	default:
		return TypeSystem
	}
}

func isInternalAttr(key string) bool {
	switch key {
	case "type", "name", "user_name", "status", "error", "error_location":
		return true
	}
	return false
}

func lookup(attrs []slog.Attr, key string) string {
	for i := len(attrs) - 1; i >= 0; i-- {
		if attrs[i].Key == key {
			return attrs[i].Value.String()
		}
	}
	return ""
}

func getErrorLocation(attrs []slog.Attr, pc uintptr) string {
	if loc := lookup(attrs, "error_location"); loc != "" {
		return loc
	}
	if pc == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}

// Setup installs the handler as the slog default.
func Setup(level slog.Level, noColor bool) {
	slog.SetDefault(slog.New(NewHandler(Options{Level: level, NoColor: noColor})))
}
