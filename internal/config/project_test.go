package config_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/dpe3cl/internal/config"
)

func TestResolveProjectDir(t *testing.T) {
	isolateHome(t)
	ctx := context.Background()

	root := t.TempDir()
	projectDir := filepath.Join(root, config.ProjectDirName)
	nested := filepath.Join(root, "a", "b")
	writeOverlay(t, filepath.Join(projectDir, "config.yaml"), "")
	writeOverlay(t, filepath.Join(nested, "keep"), "")

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(config.EnvProjectDir, "/elsewhere")
		assert.Equal(t, filepath.Join(root, "x", config.ProjectDirName),
			config.ResolveProjectDir(ctx, filepath.Join(root, "x"), nested))
	})

	t.Run("env var", func(t *testing.T) {
		t.Setenv(config.EnvProjectDir, projectDir)
		assert.Equal(t, projectDir, config.ResolveProjectDir(ctx, "", ""))
	})

	t.Run("walk up", func(t *testing.T) {
		assert.Equal(t, projectDir, config.ResolveProjectDir(ctx, "", nested))
	})

	t.Run("none", func(t *testing.T) {
		assert.Empty(t, config.ResolveProjectDir(ctx, "", ""))
	})
}

func TestNewWithProjectDir(t *testing.T) {
	home := isolateHome(t)
	ctx := context.Background()
	writeOverlay(t, filepath.Join(home, "config.yaml"), "batch:\n  concurrency: 2\nengine:\n  missing_policy: warn\n")

	projectDir := filepath.Join(t.TempDir(), config.ProjectDirName)
	writeOverlay(t, filepath.Join(projectDir, "config.yaml"), "engine:\n  compat_mode: true\n  missing_policy: fail\n")

	cfg := config.NewWithProjectDir(ctx, projectDir)
	assert.True(t, cfg.Engine.CompatMode)
	assert.Equal(t, config.MissingPolicyFail, cfg.Engine.MissingPolicy)
	assert.Equal(t, 2, cfg.Batch.Concurrency)

	t.Run("env beats project file", func(t *testing.T) {
		t.Setenv(config.EnvMissingPolicy, "warn")
		assert.Equal(t, config.MissingPolicyWarn, config.NewWithProjectDir(ctx, projectDir).Engine.MissingPolicy)
	})

	t.Run("no overlay", func(t *testing.T) {
		cfg := config.NewWithProjectDir(ctx, filepath.Join(t.TempDir(), config.ProjectDirName))
		assert.False(t, cfg.Engine.CompatMode)
	})

	t.Run("broken overlay falls back", func(t *testing.T) {
		broken := filepath.Join(t.TempDir(), config.ProjectDirName)
		writeOverlay(t, filepath.Join(broken, "config.yaml"), "engine: [\n")
		cfg := config.NewWithProjectDir(ctx, broken)
		assert.Equal(t, config.MissingPolicyWarn, cfg.Engine.MissingPolicy)
	})
}
