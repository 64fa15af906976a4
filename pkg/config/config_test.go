package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/ddupe/pkg/models"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, models.AlgorithmSHA256, cfg.Scan.Algorithm)
	assert.Equal(t, 1, cfg.Performance.MaxWorkers)
	assert.Equal(t, "human", cfg.Output.Format)
	assert.False(t, cfg.Logging.Enabled)
	assert.Empty(t, cfg.Exclude)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad algorithm", func(c *Config) { c.Scan.Algorithm = "md5" }, "scan.algorithm"},
		{"no workers", func(c *Config) { c.Performance.MaxWorkers = 0 }, "performance.max_workers"},
		{"small buffer", func(c *Config) { c.Performance.BufferSize = 512 }, "performance.buffer_size"},
		{"bad bandwidth", func(c *Config) { c.Performance.BandwidthLimit = "fast" }, "performance.bandwidth_limit"},
		{"bad output format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"bad color", func(c *Config) { c.Output.Color = "sometimes" }, "output.color"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestBandwidthBytes(t *testing.T) {
	cfg := Default()
	n, err := cfg.BandwidthBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	cfg.Performance.BandwidthLimit = "2M"
	n, err = cfg.BandwidthBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(2*1024*1024), n)
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			cfg := Default()
			cfg.Scan.Algorithm = models.AlgorithmBLAKE3
			cfg.Scan.PrefixPrefilter = false
			cfg.Performance.MaxWorkers = 4
			cfg.Performance.BandwidthLimit = "10M"
			cfg.Output.Color = "never"
			cfg.Logging.Level = "debug"
			cfg.Exclude = []string{"*.tmp", ".git/"}

			require.NoError(t, SaveToFile(cfg, path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Run("yaml keeps defaults for missing keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := "scan:\n  algorithm: blake3\nperformance:\n  max_workers: 8\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, models.AlgorithmBLAKE3, cfg.Scan.Algorithm)
		assert.Equal(t, 8, cfg.Performance.MaxWorkers)
		assert.Equal(t, 8192, cfg.Performance.BufferSize)
		assert.True(t, cfg.Scan.SizePrefilter)
	})

	t.Run("toml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		data := "exclude = [\"*.bak\"]\n\n[output]\nformat = \"json\"\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Output.Format)
		assert.Equal(t, []string{"*.bak"}, cfg.Exclude)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("performance:\n  max_workers: 0\n"), 0644))

		_, err := LoadFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "performance.max_workers")
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("scan: [unclosed"), 0644))

		_, err := LoadFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("missing", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestDefaultPaths(t *testing.T) {
	path, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("ddupe", "config.yaml"), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))

	logPath, err := DefaultLogPath()
	require.NoError(t, err)
	assert.Equal(t, "ddupe.log", filepath.Base(logPath))
}
