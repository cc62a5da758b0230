package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAuditLoggerLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	al := WrapAuditLogger(zap.New(core), "ats-api", "test")

	al.Log(context.Background(), AuditEvent{
		Event:        EventReferrerAttribution,
		SubjectType:  "email",
		SubjectValue: "asha@example.com",
		ActorID:      "7",
		RequestID:    "req-1",
		Details:      map[string]any{"referrer_id": int64(12)},
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "referrer_attribution", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "a***@example.com", fields["subject_value"])
	assert.Equal(t, "7", fields["actor_id"])
	assert.Equal(t, "ats-api", fields["service"])
}

func TestAuditLoggerNilIsNoop(t *testing.T) {
	var al *AuditLogger
	assert.NotPanics(t, func() {
		al.Log(context.Background(), AuditEvent{Event: EventCandidateCreated})
	})
	assert.NoError(t, al.Sync())
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("john@example.com"))
	assert.Equal(t, "***@example.com", MaskEmail("j@example.com"))
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Equal(t, "***", MaskEmail("no-at-sign"))
}
