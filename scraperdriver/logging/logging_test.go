package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestStdLoggerWritesTypeAndValues(t *testing.T) {
	var buf bytes.Buffer
	l := &StdLogger{out: log.New(&buf, "", 0)}

	l.LogEvent(Info, &Event{Type: "request", Values: map[string]string{"url": "https://example.com"}})

	out := buf.String()
	if !strings.Contains(out, "request") || !strings.Contains(out, "url=https://example.com") {
		t.Fatalf("log line = %q, missing expected fields", out)
	}
}

func TestStdLoggerSortsValueKeys(t *testing.T) {
	var buf bytes.Buffer
	l := &StdLogger{out: log.New(&buf, "", 0)}

	l.LogEvent(Info, &Event{Type: "t", Values: map[string]string{"z": "1", "a": "2"}})

	out := buf.String()
	if strings.Index(out, "a=2") > strings.Index(out, "z=1") {
		t.Fatalf("expected sorted key order in %q", out)
	}
}

func TestNopLoggerDiscardsEverything(t *testing.T) {
	var n Nop
	n.LogEvent(Error, &Event{Type: "x"})
	n.LogError(Error, nil)
}
