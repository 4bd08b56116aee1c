package logger

import (
	"fmt"
	"regexp"
)

// piiPatterns are scrubbed from string field values before emission.
// Keys name the replacement token, e.g. [REDACTED:email].
var piiPatterns = map[string]*regexp.Regexp{
	"email":   regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	"phone":   regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
	"apiKey":  regexp.MustCompile(`\bsk-[A-Za-z0-9-]{20,}\b`),
	"ip":      regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
	"ccn":     regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`),
}

// sanitizingLogger wraps another Logger and scrubs PII from string fields.
// Enabled in production so user-supplied brand text never lands in logs raw.
type sanitizingLogger struct {
	inner Logger
}

// NewSanitizing wraps l so that every string field value has email, phone,
// API-key, IP and card-number patterns replaced before logging.
func NewSanitizing(l Logger) Logger {
	return &sanitizingLogger{inner: l}
}

func scrub(s string) string {
	for name, re := range piiPatterns {
		s = re.ReplaceAllString(s, fmt.Sprintf("[REDACTED:%s]", name))
	}
	return s
}

func scrubFields(fields map[string]interface{}) map[string]interface{} {
	if len(fields) == 0 {
		return fields
	}
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok {
			out[k] = scrub(s)
		} else {
			out[k] = v
		}
	}
	return out
}

func (s *sanitizingLogger) Debug(msg string, fields map[string]interface{}) {
	s.inner.Debug(scrub(msg), scrubFields(fields))
}

func (s *sanitizingLogger) Info(msg string, fields map[string]interface{}) {
	s.inner.Info(scrub(msg), scrubFields(fields))
}

func (s *sanitizingLogger) Warn(msg string, fields map[string]interface{}) {
	s.inner.Warn(scrub(msg), scrubFields(fields))
}

func (s *sanitizingLogger) Error(msg string, fields map[string]interface{}) {
	s.inner.Error(scrub(msg), scrubFields(fields))
}

func (s *sanitizingLogger) WithFields(fields map[string]interface{}) Logger {
	return &sanitizingLogger{inner: s.inner.WithFields(scrubFields(fields))}
}

func (s *sanitizingLogger) WithError(err error) Logger {
	return &sanitizingLogger{inner: s.inner.WithError(err)}
}
