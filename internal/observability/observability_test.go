package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_FormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, LoggerConfig{Level: "warn", Format: "json"})

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)

	buf.Reset()
	newLogger(&buf, LoggerConfig{Level: "debug", Format: "text"}).Debug("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("nonsense"))
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	assert.Equal(t, "abc", GetRequestID(ctx))
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestSpans(t *testing.T) {
	ctx, parent := StartSpan(context.Background(), "parent")
	_, child := StartSpan(ctx, "child")

	assert.Equal(t, parent.TraceID, child.TraceID)
	assert.Equal(t, parent.SpanID, child.ParentID)
	require.Same(t, parent, GetSpan(ctx))

	child.SetTag("k", "v")
	child.SetError(errors.New("boom"))
	child.Finish()

	assert.Equal(t, SpanStatusError, child.Status())
	assert.Equal(t, map[string]string{"k": "v"}, child.Tags())
	assert.Nil(t, GetSpan(context.Background()))
}
