package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactMasksCredentialKeys(t *testing.T) {
	got := redact([]interface{}{"api_key", "sk-live", "exercise", "Squat", "jwtToken", "abc", "dangling"})
	assert.Equal(t, []interface{}{"api_key", "[REDACTED]", "exercise", "Squat", "jwtToken", "[REDACTED]", "dangling"}, got)
}

func TestLoggerWritesFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("job", "youtube").Info("exercise processed", "exercise_id", 7, "password", "hunter2")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "youtube", fields["job"])
		assert.EqualValues(t, 7, fields["exercise_id"])
		assert.Equal(t, "[REDACTED]", fields["password"])
	}
}
