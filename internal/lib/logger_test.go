package lib

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerNamedAndLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := NewLoggerMemory(LoggerConfig{Level: "info"}, buf)
	require.NoError(t, err)

	named := log.Named("LEDGER")
	named.Debugf("hidden %d", 1)
	named.Infof("committed %s", "contribute")
	_ = named.Sync()

	out := buf.String()
	require.Contains(t, out, "LEDGER")
	require.Contains(t, out, "committed contribute")
	require.NotContains(t, out, "hidden")
}

func TestLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	log, err := NewLogger(LoggerConfig{Level: "warn", FolderPath: dir, FileName: "test.log", IsJSON: true})
	require.NoError(t, err)

	log.With("campaign", 1).Debugf("file core logs every level")
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "file core logs every level")
	require.Contains(t, string(data), `"campaign":1`)
}

func TestLoggerInvalidLevel(t *testing.T) {
	_, err := NewLogger(LoggerConfig{Level: "loud"})
	require.Error(t, err)
}
