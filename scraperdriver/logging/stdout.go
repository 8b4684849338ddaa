package logging

import (
	"fmt"
	"log"
	"os"
	"sort"
)

// StdLogger writes plain lines to an *log.Logger, mirroring the teacher's
// stdLogger that wraps the standard library logger instead of pulling in
// a structured backend. Good enough for scraperctl's default output.
type StdLogger struct {
	out *log.Logger
}

// NewStdLogger builds a StdLogger writing to os.Stderr with a standard
// timestamp prefix.
func NewStdLogger() *StdLogger {
	return &StdLogger{out: log.New(os.Stderr, "", log.LstdFlags)}
}

func (s *StdLogger) LogEvent(level Level, e *Event) {
	keys := make([]string, 0, len(e.Values))
	for k := range e.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	line := fmt.Sprintf("[%s] %s", level, e.Type)
	for _, k := range keys {
		line += fmt.Sprintf(" %s=%s", k, e.Values[k])
	}
	s.out.Println(line)
}

func (s *StdLogger) LogError(level Level, err error) {
	s.out.Printf("[%s] error: %v", level, err)
}
