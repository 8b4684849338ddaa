package logging

import "github.com/sirupsen/logrus"

// LogrusLogger routes events through a *logrus.Logger, giving operators
// structured (JSON or text) output and the usual logrus hooks/formatters.
type LogrusLogger struct {
	entry *logrus.Logger
}

// NewLogrusLogger wraps l. A nil l uses logrus.StandardLogger().
func NewLogrusLogger(l *logrus.Logger) *LogrusLogger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &LogrusLogger{entry: l}
}

func (l *LogrusLogger) LogEvent(level Level, e *Event) {
	fields := make(logrus.Fields, len(e.Values))
	for k, v := range e.Values {
		fields[k] = v
	}
	entry := l.entry.WithFields(fields)
	entry.Log(toLogrusLevel(level), e.Type)
}

func (l *LogrusLogger) LogError(level Level, err error) {
	l.entry.WithFields(logrus.Fields{"error": err.Error()}).Log(toLogrusLevel(level), "error")
}

func toLogrusLevel(level Level) logrus.Level {
	switch level {
	case Debug:
		return logrus.DebugLevel
	case Info:
		return logrus.InfoLevel
	case Warn:
		return logrus.WarnLevel
	case Error:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
