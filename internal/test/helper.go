package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// FileContent returns the content of the file below testdata.
func FileContent(t *testing.T, path ...string) []byte {
	t.Helper()

	p := filepath.Join(append([]string{"testdata"}, path...)...)
	content, err := os.ReadFile(p)
	require.NoError(t, err, "failed to read data from %s", p)

	return content
}

// Fixture returns the content of the file below testdata as string.
func Fixture(t *testing.T, path ...string) string {
	t.Helper()

	return string(FileContent(t, path...))
}
