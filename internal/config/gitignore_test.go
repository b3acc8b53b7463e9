package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/dpe3cl/internal/config"
)

func TestGitignoreContent(t *testing.T) {
	content := config.GitignoreContent()
	for _, pattern := range []string{"results/\n", "*.ndjson\n", "*.log\n"} {
		assert.Contains(t, content, pattern)
	}
	assert.NotContains(t, content, "config.yaml\n")
}

func TestEnsureGitignore(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T) string
		wantCreated bool
		wantContent string
	}{
		{
			name: "nested directory is created",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "sub", config.ProjectDirName)
			},
			wantCreated: true,
			wantContent: config.GitignoreContent(),
		},
		{
			name: "existing file is kept",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("# mine\nout/\n"), 0o644))
				return dir
			},
			wantContent: "# mine\nout/\n",
		},
		{
			name: "second call is a no-op",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				created, err := config.EnsureGitignore(dir)
				require.NoError(t, err)
				require.True(t, created)
				return dir
			},
			wantContent: config.GitignoreContent(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := tt.setup(t)

			created, err := config.EnsureGitignore(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreated, created)

			data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantContent, string(data))
		})
	}
}

func TestEnsureGitignore_ReadOnlyDir(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced here")
	}

	readonly := filepath.Join(t.TempDir(), "readonly")
	require.NoError(t, os.MkdirAll(readonly, 0o755))
	require.NoError(t, os.Chmod(readonly, 0o555))
	t.Cleanup(func() { _ = os.Chmod(readonly, 0o755) })

	created, err := config.EnsureGitignore(readonly)
	require.Error(t, err)
	assert.False(t, created)

	_, statErr := os.Stat(filepath.Join(readonly, ".gitignore"))
	assert.True(t, os.IsNotExist(statErr))
}
