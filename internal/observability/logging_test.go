package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestContextValues(t *testing.T) {
	ctx := WithRenderID(context.Background(), "r-1")
	ctx = WithDocument(ctx, "README.md")
	ctx = WithFormat(ctx, "html")

	lc := GetContext(ctx)
	assert.Equal(t, "r-1", lc.RenderID)
	assert.Equal(t, "README.md", lc.Document)
	assert.Equal(t, "html", lc.Format)
}

func TestStartRenderAssignsUUID(t *testing.T) {
	a := GetContext(StartRender(context.Background(), "a.md", "ansi"))
	b := GetContext(StartRender(context.Background(), "a.md", "ansi"))

	_, err := uuid.Parse(a.RenderID)
	require.NoError(t, err)
	assert.NotEqual(t, a.RenderID, b.RenderID)
	assert.Equal(t, "a.md", a.Document)
}

func TestStartRenderKeepsExistingID(t *testing.T) {
	ctx := WithRenderID(context.Background(), "req-7")
	lc := GetContext(StartRender(ctx, "b.md", "html"))
	assert.Equal(t, "req-7", lc.RenderID)
	assert.Equal(t, "html", lc.Format)
}

func TestLogHelpersIncludeContext(t *testing.T) {
	buf := captureDefault(t)
	ctx := WithDocument(WithRenderID(context.Background(), "r-9"), "guide.md")

	InfoContext(ctx, "rendered", slog.Int("bytes", 42))
	DebugContext(ctx, "nesting limit")

	out := buf.String()
	assert.Contains(t, out, "render_id=r-9")
	assert.Contains(t, out, "document=guide.md")
	assert.Contains(t, out, "bytes=42")
	assert.Contains(t, out, "nesting limit")
}

func TestEmptyContextLogsPlainMessage(t *testing.T) {
	buf := captureDefault(t)
	WarnContext(context.Background(), "no context")
	assert.NotContains(t, buf.String(), "render_id")
}
