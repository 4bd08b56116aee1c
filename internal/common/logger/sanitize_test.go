// internal/common/logger/sanitize_test.go
package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type capturedEntry struct {
	msg    string
	fields map[string]interface{}
}

// capturingLogger records every emission for assertion.
type capturingLogger struct {
	entries []capturedEntry
	bound   map[string]interface{}
}

func (c *capturingLogger) record(msg string, fields map[string]interface{}) {
	c.entries = append(c.entries, capturedEntry{msg: msg, fields: fields})
}

func (c *capturingLogger) Debug(msg string, fields map[string]interface{}) { c.record(msg, fields) }
func (c *capturingLogger) Info(msg string, fields map[string]interface{})  { c.record(msg, fields) }
func (c *capturingLogger) Warn(msg string, fields map[string]interface{})  { c.record(msg, fields) }
func (c *capturingLogger) Error(msg string, fields map[string]interface{}) { c.record(msg, fields) }

func (c *capturingLogger) WithFields(fields map[string]interface{}) Logger {
	c.bound = fields
	return c
}

func (c *capturingLogger) WithError(_ error) Logger { return c }

// ==========================
// PII Scrubbing Tests
// ==========================

func TestSanitizing_ScrubsStringFields(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"email", "contact jane.doe@example.com for access", "contact [REDACTED:email] for access"},
		{"phone", "call 555-867-5309 after hours", "call [REDACTED:phone] after hours"},
		{"api key", "leaked sk-abcdefghij0123456789xyz in config", "leaked [REDACTED:apiKey] in config"},
		{"ip address", "request from 192.168.10.42 denied", "request from [REDACTED:ip] denied"},
		{"card number", "charged 4111-1111-1111-1111 twice", "charged [REDACTED:ccn] twice"},
		{"clean text", "nothing sensitive here", "nothing sensitive here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &capturingLogger{}
			log := NewSanitizing(inner)

			log.Info("provider call", map[string]interface{}{"detail": tt.value})

			require.Len(t, inner.entries, 1)
			assert.Equal(t, tt.want, inner.entries[0].fields["detail"])
		})
	}
}

func TestSanitizing_ScrubsMessage(t *testing.T) {
	inner := &capturingLogger{}
	log := NewSanitizing(inner)

	log.Error("rejected key sk-abcdefghij0123456789xyz", nil)

	require.Len(t, inner.entries, 1)
	assert.Equal(t, "rejected key [REDACTED:apiKey]", inner.entries[0].msg)
}

func TestSanitizing_LeavesNonStringFieldsAlone(t *testing.T) {
	inner := &capturingLogger{}
	log := NewSanitizing(inner)

	log.Info("run complete", map[string]interface{}{"attempts": 3, "elapsed": 1.5})

	require.Len(t, inner.entries, 1)
	assert.Equal(t, 3, inner.entries[0].fields["attempts"])
	assert.Equal(t, 1.5, inner.entries[0].fields["elapsed"])
}

func TestSanitizing_ScrubsBoundFields(t *testing.T) {
	inner := &capturingLogger{}
	log := NewSanitizing(inner)

	log.WithFields(map[string]interface{}{"owner": "ops@example.com"}).Info("scoped", nil)

	require.NotNil(t, inner.bound)
	assert.Equal(t, "[REDACTED:email]", inner.bound["owner"])
}
