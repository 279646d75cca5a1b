package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultJobs(t *testing.T) {
	t.Parallel()
	assert.GreaterOrEqual(t, DefaultJobs(), 1)
}

func TestRunConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := &RunConfig{}
	assert.Equal(t, "output", cfg.GetOut())
	assert.False(t, cfg.GetUseAffine())
	assert.True(t, cfg.GetEqualSize())
	assert.False(t, cfg.GetFigures())
	assert.Equal(t, DefaultJobs(), cfg.GetJobs())
	assert.Empty(t, cfg.GetDB())
}

func TestLoadRunConfig(t *testing.T) {
	t.Parallel()

	t.Run("partial file overrides only named fields", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "run.json", `{"use_affine": true, "jobs": 4}`)

		cfg, err := LoadRunConfig(path)
		require.NoError(t, err)
		assert.True(t, cfg.GetUseAffine())
		assert.Equal(t, 4, cfg.GetJobs())
		// Untouched fields keep their defaults.
		assert.Equal(t, "output", cfg.GetOut())
		assert.True(t, cfg.GetEqualSize())
	})

	t.Run("full file", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "run.json", `{
			"out": "results",
			"use_affine": true,
			"equal_size": false,
			"figures": true,
			"jobs": 2,
			"db": "stats.db"
		}`)

		cfg, err := LoadRunConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "results", cfg.GetOut())
		assert.False(t, cfg.GetEqualSize())
		assert.True(t, cfg.GetFigures())
		assert.Equal(t, 2, cfg.GetJobs())
		assert.Equal(t, "stats.db", cfg.GetDB())
	})

	t.Run("rejects non-json extension", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "run.yaml", `{}`)
		_, err := LoadRunConfig(path)
		require.Error(t, err)
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "run.json", `{"jobs": 0}`)
		_, err := LoadRunConfig(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadRunConfig(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
	})
}
