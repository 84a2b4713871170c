package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/vfs2go/internal/logging"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("parent missing", "dir", 3, "parent", 42)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, "level=WARN msg=\"parent missing\" dir=3 parent=42\n", out)
}
