package logger

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Fields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := NewWithCore(core)

	log.WithField("tool", "click_element").
		WithFields(map[string]any{"iteration": 3}).
		Warn("Click intercepted", "element", 5, "error", errors.New("covered"))

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "Click intercepted", entries[0].Message)
	assert.Equal(t, "click_element", ctx["tool"])
	assert.EqualValues(t, 3, ctx["iteration"])
	assert.EqualValues(t, 5, ctx["element"])
	assert.Equal(t, "covered", ctx["error"])
}

func TestZapLogger_DanglingKey(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	NewWithCore(core).Info("odd", "key")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "key", logs.All()[0].ContextMap()["!BADKEY"])
}

func TestNew_WritesJSONFile(t *testing.T) {
	dir := t.TempDir()
	log, err := New(Config{Level: "debug", Dir: dir, TaskName: "find a flight!"})
	require.NoError(t, err)

	log.Debug("Session committed", "url", "https://example.com")
	require.NoError(t, log.Close())

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.HasSuffix(files[0].Name(), "_find_a_flight_.log"))

	f, err := os.Open(filepath.Join(dir, files[0].Name()))
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())
	var entry map[string]any
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "Session committed", entry["msg"])
	assert.Equal(t, "https://example.com", entry["url"])
}

func TestNew_LevelFilters(t *testing.T) {
	dir := t.TempDir()
	log, err := New(Config{Level: "warn", Dir: dir})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, log.Close())

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, files[0].Name()))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNew_NoSinks(t *testing.T) {
	log, err := New(Config{})
	require.NoError(t, err)

	log.Info("dropped")
	assert.NoError(t, log.Close())
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "task", sanitize(""))
	assert.Equal(t, "a_b-c", sanitize("a b-c"))
	assert.Len(t, sanitize(strings.Repeat("x", 100)), 60)
}
