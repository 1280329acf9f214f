package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func newBufLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	return NewSlogLogger(slog.New(slog.NewJSONHandler(buf, nil))), buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestSlogLogger_InfoWritesMessageAndArgs(t *testing.T) {
	l, buf := newBufLogger(t)

	l.Info(context.Background(), "file stored", "fileId", "abc")

	m := lastLine(t, buf)
	require.Equal(t, "file stored", m["msg"])
	require.Equal(t, "abc", m["fileId"])
	require.Equal(t, "INFO", m["level"])
}

func TestSlogLogger_WithAddsPersistentFields(t *testing.T) {
	l, buf := newBufLogger(t)

	child := l.With("module", "http_server")
	child.Warn(context.Background(), "slow request")

	m := lastLine(t, buf)
	require.Equal(t, "http_server", m["module"])
	require.Equal(t, "WARN", m["level"])
}

func TestSlogLogger_ErrorLevel(t *testing.T) {
	l, buf := newBufLogger(t)

	l.Error(context.Background(), "db down", "err", "connection refused")

	m := lastLine(t, buf)
	require.Equal(t, "ERROR", m["level"])
	require.Equal(t, "connection refused", m["err"])
}
