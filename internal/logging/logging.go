// Package logging provides the categorized console logger used by loopblock.
//
// Every line is printed as a colored category tag, a dimmed ISO-8601
// timestamp and the message, e.g.
//
//	[INFO] [2024-05-01T10:00:00.000Z] Incoming request: GET / request_id=...
package logging

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// TimeFormat is the timestamp layout used in log lines and response payloads.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// Category classifies a log line. It selects the tag and its color.
type Category string

// Known categories.
const (
	Server  Category = "SERVER"
	Error   Category = "ERROR"
	Success Category = "SUCCESS"
	Warning Category = "WARNING"
	Info    Category = "INFO"
	Clock   Category = "CLOCK"
	Fast    Category = "FAST"
	Slow    Category = "SLOW"
)

const categoryKey = "category"

// Logger writes categorized lines through logrus.
// The zero value is not usable; use New or NewConsole.
type Logger struct {
	entry *logrus.Entry
}

// New creates a Logger writing to out. When colored is false no ANSI
// escape sequences are emitted.
func New(out io.Writer, colored bool) *Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(newConsoleFormatter(colored))
	return &Logger{entry: logrus.NewEntry(l)}
}

// NewConsole creates a Logger writing to the terminal, with colors enabled
// only when stdout is a TTY.
func NewConsole() *Logger {
	return New(color.Output, !color.NoColor)
}

// WithField returns a Logger that appends key=value to every line.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// Log prints one line in the given category.
func (l *Logger) Log(cat Category, format string, args ...interface{}) {
	l.entry.WithField(categoryKey, cat).Logf(levelFor(cat), format, args...)
}

// Infof logs in the INFO category.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Log(Info, format, args...)
}

// Errorf logs in the ERROR category.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Log(Error, format, args...)
}

// Successf logs in the SUCCESS category.
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Log(Success, format, args...)
}

// Warnf logs in the WARNING category.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Log(Warning, format, args...)
}

// ErrorWriter returns an io.Writer that logs each write as an ERROR line.
// It is meant for http.Server.ErrorLog.
func (l *Logger) ErrorWriter() io.Writer {
	return errorWriter{l}
}

type errorWriter struct {
	l *Logger
}

func (w errorWriter) Write(p []byte) (int, error) {
	w.l.Errorf("%s", strings.TrimSpace(string(p)))
	return len(p), nil
}

func levelFor(cat Category) logrus.Level {
	switch cat {
	case Error:
		return logrus.ErrorLevel
	case Warning:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}

// consoleFormatter renders entries as "[TAG] [timestamp] message k=v".
type consoleFormatter struct {
	tags map[Category]*color.Color
	dim  *color.Color
	// fallback for categories without a dedicated color
	plain *color.Color
}

func newConsoleFormatter(colored bool) *consoleFormatter {
	f := &consoleFormatter{
		tags: map[Category]*color.Color{
			Error:   color.New(color.FgRed),
			Success: color.New(color.FgGreen),
			Warning: color.New(color.FgYellow),
			Info:    color.New(color.FgCyan),
			Server:  color.New(color.FgMagenta),
			Clock:   color.New(color.FgBlue),
			Slow:    color.New(color.FgBlue),
			Fast:    color.New(color.FgGreen),
		},
		dim:   color.New(color.Faint),
		plain: color.New(color.FgWhite),
	}
	all := []*color.Color{f.dim, f.plain}
	for _, c := range f.tags {
		all = append(all, c)
	}
	for _, c := range all {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// Format implements logrus.Formatter.
func (f *consoleFormatter) Format(e *logrus.Entry) ([]byte, error) {
	cat, ok := e.Data[categoryKey].(Category)
	if !ok {
		cat = categoryForLevel(e.Level)
	}
	c, ok := f.tags[cat]
	if !ok {
		c = f.plain
	}

	var b bytes.Buffer
	b.WriteString(c.Sprintf("[%s]", cat))
	b.WriteByte(' ')
	b.WriteString(f.dim.Sprintf("[%s]", e.Time.UTC().Format(TimeFormat)))
	b.WriteByte(' ')
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		if k != categoryKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func categoryForLevel(level logrus.Level) Category {
	switch {
	case level <= logrus.ErrorLevel:
		return Error
	case level == logrus.WarnLevel:
		return Warning
	default:
		return Info
	}
}

// Now returns the current time formatted with TimeFormat.
func Now() string {
	return time.Now().UTC().Format(TimeFormat)
}
