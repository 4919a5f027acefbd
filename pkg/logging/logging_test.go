package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "json")
	l.Info("hidden")
	l.Warn("shown", "track", "Coot-tha")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "Coot-tha", rec["track"])

	buf.Reset()
	l = New(&buf, "debug", "")
	l.Debug("dropping point", "index", 3)
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "index=3")

	buf.Reset()
	l = New(&buf, "nonsense", "text")
	l.Debug("hidden")
	assert.Empty(t, buf.String())
}
