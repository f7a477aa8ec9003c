package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*LogrusLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(&buf, "debug", "json")
	require.NoError(t, err)
	return l, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLogrusLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", "two")
	log.Warn(ctx, "wrn", "c", true)
	log.Error(ctx, "err", "d", errors.New("boom"))

	lines := decodeLines(t, buf)
	require.Len(t, lines, 4)

	tests := []struct {
		level string
		msg   string
		key   string
		val   any
	}{
		{"debug", "dbg", "a", float64(1)},
		{"info", "inf", "b", "two"},
		{"warning", "wrn", "c", true},
		{"error", "err", "d", "boom"},
	}

	for i, tc := range tests {
		assert.Equal(t, tc.level, lines[i]["level"])
		assert.Equal(t, tc.msg, lines[i]["msg"])
		assert.Equal(t, tc.val, lines[i][tc.key])
	}
}

func TestLogrusLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("request_id", "123", "owner_id", "u1").Info(context.Background(), "hello", "k", "v")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "123", lines[0]["request_id"])
	assert.Equal(t, "u1", lines[0]["owner_id"])
	assert.Equal(t, "v", lines[0]["k"])
}

func TestLogrusLogger_DanglingValueIsKept(t *testing.T) {
	log, buf := newTestLogger(t)

	log.Info(context.Background(), "odd", "k", "v", "orphan")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "v", lines[0]["k"])
	assert.Equal(t, "orphan", lines[0][badKey])
}

func TestLogrusLogger_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info", "text")
	require.NoError(t, err)

	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestNew_RejectsBadConfig(t *testing.T) {
	_, err := New(nil, "loud", "json")
	assert.Error(t, err)

	_, err = New(nil, "info", "xml")
	assert.Error(t, err)
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := Nop().With("a", 1)
	ctx := context.TODO()
	log.Debug(ctx, "x")
	log.Info(ctx, "x")
	log.Warn(ctx, "x")
	log.Error(ctx, "x")
}
