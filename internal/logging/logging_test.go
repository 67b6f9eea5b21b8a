package logging

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestLogLine(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.Log(Clock, "started %d", 1)

	line := buf.String()
	re := regexp.MustCompile(`^\[CLOCK\] \[(\S+)\] started 1\n$`)
	m := re.FindStringSubmatch(line)
	if m == nil {
		t.Fatalf("unexpected line %q", line)
	}
	if _, err := time.Parse(TimeFormat, m[1]); err != nil {
		t.Errorf("timestamp %q does not parse: %v", m[1], err)
	}
}

func TestCategories(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.Infof("a")
	log.Errorf("b")
	log.Successf("c")
	log.Warnf("d")
	log.Log(Server, "e")
	log.Log(Fast, "f")
	log.Log(Slow, "g")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{"[INFO]", "[ERROR]", "[SUCCESS]", "[WARNING]", "[SERVER]", "[FAST]", "[SLOW]"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), buf.String())
	}
	for i, tag := range want {
		if !strings.HasPrefix(lines[i], tag+" ") {
			t.Errorf("line %d = %q, want prefix %q", i, lines[i], tag)
		}
	}
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false).WithField("request_id", "abc")

	log.Infof("hello")

	if !strings.HasSuffix(buf.String(), "hello request_id=abc\n") {
		t.Errorf("unexpected line %q", buf.String())
	}
}

func TestColored(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Errorf("boom")

	if !strings.Contains(buf.String(), "\x1b[31m[ERROR]") {
		t.Errorf("expected red ERROR tag, got %q", buf.String())
	}

	buf.Reset()
	New(&buf, false).Errorf("boom")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected no escape codes, got %q", buf.String())
	}
}

func TestErrorWriter(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf, false).ErrorWriter()

	n, err := w.Write([]byte("http: Accept error\n"))
	if err != nil || n != len("http: Accept error\n") {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if !strings.HasPrefix(buf.String(), "[ERROR] ") || !strings.Contains(buf.String(), "http: Accept error\n") {
		t.Errorf("unexpected line %q", buf.String())
	}
}
