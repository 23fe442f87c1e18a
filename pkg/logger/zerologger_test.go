package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestZeroLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("development", &buf)

	l.Info(context.Background(), "codes generated",
		Field{Key: "provider", Value: "google"},
		Field{Key: "attempt", Value: 1},
	)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "codes generated", entry["message"])
	assert.Equal(t, "google", entry["provider"])
	assert.Equal(t, float64(1), entry["attempt"])
	assert.NotEmpty(t, entry["time"])
}

func TestZeroLogger_ProductionSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("production", &buf)

	l.Debug(context.Background(), "hidden")
	assert.Zero(t, buf.Len())

	l.Error(context.Background(), "shown", Field{Key: "error", Value: errors.New("boom").Error()})
	entry := decodeLine(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boom", entry["error"])
}

func TestZeroLogger_RequestID(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("development", &buf)

	ctx := WithRequestID(context.Background(), "req-123")
	l.Warn(ctx, "state expired")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "req-123", entry["request_id"])
}

func TestRequestID_Missing(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Info(context.Background(), "discarded")
	})
}
