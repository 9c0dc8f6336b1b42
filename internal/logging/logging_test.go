package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Format: "json", Output: &buf})
	ctx := context.Background()
	l.Info(ctx, "dropped")
	l.With(String("region", "A")).Warn(ctx, "ring skipped", Int("ring", 2), Err(errors.New("boom")))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ring skipped", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "A", rec["region"])
	assert.Equal(t, 2.0, rec["ring"])
	assert.Equal(t, "boom", rec["error"])
}

func TestTextLoggerDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf})
	l.Debug(context.Background(), "hidden")
	l.Info(context.Background(), "shown", Float("z", 1.5))
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "z=1.5")
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geoscene.log")
	l, c, err := NewFile(Config{}, path)
	require.NoError(t, err)
	l.Error(context.Background(), "written")
	require.NoError(t, c.Close())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written")
}

func TestContextLogger(t *testing.T) {
	assert.Equal(t, Noop(), FromContext(context.Background()))
	var buf bytes.Buffer
	l := New(Config{Output: &buf})
	ctx := ContextWithLogger(context.Background(), l)
	FromContext(ctx).Info(ctx, "via ctx")
	assert.Contains(t, buf.String(), "via ctx")
}
