package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSafeWriteFileReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cast.report.md")
	require.NoError(t, SafeWriteFile(path, []byte("first")))
	require.NoError(t, SafeWriteFile(path, []byte("second")))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files should not be left behind")
}

func TestSafeWriteFileMissingDir(t *testing.T) {
	err := SafeWriteFile(filepath.Join(t.TempDir(), "nope", "x.md"), []byte("x"))
	require.Error(t, err)
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"count": 2})
	require.NoError(t, err)
	require.Equal(t, "{\n  \"count\": 2\n}\n", string(b))
}
