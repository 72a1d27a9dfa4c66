package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	testCases := []struct {
		name     string
		content  *string
		expected string
	}{
		{name: "missing file", content: nil, expected: Default},
		{name: "trimmed", content: strPtr("\n  Fix grammar only.\n\n"), expected: "Fix grammar only."},
		{name: "blank file", content: strPtr(" \n\t"), expected: Default},
		{name: "multi-line", content: strPtr("Line one.\nLine two.\n"), expected: "Line one.\nLine two."},
	}

	for i, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, "prompt"+string(rune('a'+i)))
			if tc.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tc.content), 0o644))
			}

			got, err := Load(path, logrus.StandardLogger())
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	got, err := Load("", logrus.StandardLogger())
	require.NoError(t, err)
	assert.Equal(t, Default, got)
}

func TestLoad_Unreadable(t *testing.T) {
	// A directory cannot be read as a file.
	_, err := Load(t.TempDir(), logrus.StandardLogger())
	assert.Error(t, err)
}

func strPtr(s string) *string { return &s }
