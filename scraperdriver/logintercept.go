// Adapted from original_source/common/example_interceptors.py's
// LoggingInterceptor, routed through the engine's logging.Logger instead
// of print() per the ambient-stack logging convention.
package scraperdriver

import (
	"strconv"
	"sync"

	"github.com/freelawproject/scraperdriver/scraperdriver/logging"
	"github.com/google/uuid"
)

// LoggingInterceptor logs every request and response as it passes through
// the chain, without modifying either. Useful as a debugging template.
type LoggingInterceptor struct {
	Prefix string
	Logger logging.Logger

	mu            sync.Mutex
	RequestCount  int
	ResponseCount int
}

// NewLoggingInterceptor builds a LoggingInterceptor that logs through log.
func NewLoggingInterceptor(prefix string, log logging.Logger) *LoggingInterceptor {
	return &LoggingInterceptor{Prefix: prefix, Logger: log}
}

func (l *LoggingInterceptor) ModifyRequest(req *Request) (*Request, *Response, error) {
	l.mu.Lock()
	l.RequestCount++
	count := l.RequestCount
	l.mu.Unlock()

	l.Logger.LogEvent(logging.Info, &logging.Event{
		Type: "request",
		Values: map[string]string{
			"prefix":     l.Prefix,
			"count":      strconv.Itoa(count),
			"method":     string(req.HTTPParams.Method),
			"url":        req.HTTPParams.URL,
			"request_id": uuid.New().String(),
		},
	})
	return req, nil, nil
}

func (l *LoggingInterceptor) ModifyResponse(resp *Response, originalReq *Request) (*Response, error) {
	l.mu.Lock()
	l.ResponseCount++
	count := l.ResponseCount
	l.mu.Unlock()

	l.Logger.LogEvent(logging.Info, &logging.Event{
		Type: "response",
		Values: map[string]string{
			"prefix": l.Prefix,
			"count":  strconv.Itoa(count),
			"status": strconv.Itoa(resp.StatusCode),
			"url":    resp.URL,
		},
	})
	return resp, nil
}
