package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	all := cfg.GetAllConfig()
	assert.Equal(t, "text", all.Output.Format)
	assert.Equal(t, 0, all.Verbose.Level)
	assert.Equal(t, int64(0), all.Scan.MinSize)
	assert.Empty(t, all.Scan.Excludes)
	assert.Equal(t, 1, all.Performance.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bytedupes.ini")
	content := `[output]
format = JSON

[verbose]
level = 2

[scan]
min_size = 1024
exclude = .git, node_modules

[performance]
workers = 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	all := cfg.GetAllConfig()
	assert.Equal(t, "json", all.Output.Format)
	assert.Equal(t, 2, all.Verbose.Level)
	assert.Equal(t, int64(1024), all.Scan.MinSize)
	assert.Equal(t, []string{".git", "node_modules"}, all.Scan.Excludes)
	assert.Equal(t, 8, all.Performance.Workers)
}

func TestConfigMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.ini"))
	assert.Error(t, err)
}

func TestConfigOverrides(t *testing.T) {
	cfg, err := LoadBytes([]byte("[output]\nformat = text\n"))
	require.NoError(t, err)

	err = cfg.ApplyOverrides([]string{
		"format:json",
		"level:3",
		"min_size: 10",
		"exclude:vendor",
		"workers:4",
	})
	require.NoError(t, err)

	all := cfg.GetAllConfig()
	assert.Equal(t, "json", all.Output.Format)
	assert.Equal(t, 3, all.Verbose.Level)
	assert.Equal(t, int64(10), all.Scan.MinSize)
	assert.Equal(t, []string{"vendor"}, all.Scan.Excludes)
	assert.Equal(t, 4, all.Performance.Workers)
}

func TestConfigOverrideErrors(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Error(t, cfg.ApplyOverrides([]string{"noseparator"}))
	assert.Error(t, cfg.ApplyOverrides([]string{"color:red"}))
}

func TestConfigValidation(t *testing.T) {
	t.Run("OutputFormat", func(t *testing.T) {
		for format, valid := range map[string]bool{"text": true, "JSON": true, "xml": false, "": false} {
			err := ValidateOutputFormat(format)
			assert.Equal(t, valid, err == nil, "format %q", format)
		}
	})

	t.Run("VerboseLevel", func(t *testing.T) {
		for level, valid := range map[int]bool{0: true, 3: true, -1: false, 4: false} {
			err := ValidateVerboseLevel(level)
			assert.Equal(t, valid, err == nil, "level %d", level)
		}
	})

	t.Run("Workers", func(t *testing.T) {
		for workers, valid := range map[int]bool{1: true, MaxWorkers: true, 0: false, MaxWorkers + 1: false, 64: false} {
			err := ValidateWorkers(workers)
			assert.Equal(t, valid, err == nil, "workers %d", workers)
		}
	})

	t.Run("NonNumeric", func(t *testing.T) {
		testCases := []struct {
			name      string
			overrides []string
			file      string
		}{
			{name: "workers override", overrides: []string{"workers:abc"}},
			{name: "level override", overrides: []string{"level:loud"}},
			{name: "min_size override", overrides: []string{"min_size:ten"}},
			{name: "workers in file", file: "[performance]\nworkers = many\n"},
			{name: "level in file", file: "[verbose]\nlevel = 1.5\n"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				cfg, err := LoadBytes([]byte(tc.file))
				require.NoError(t, err)
				require.NoError(t, cfg.ApplyOverrides(tc.overrides))

				err = cfg.Validate()
				require.Error(t, err)
				assert.Contains(t, err.Error(), "expected an integer")
			})
		}
	})

	t.Run("Effective", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		require.NoError(t, cfg.ApplyOverrides([]string{"workers:0"}))
		assert.Error(t, cfg.Validate())

		require.NoError(t, cfg.ApplyOverrides([]string{"workers:2", "min_size:-5"}))
		assert.Error(t, cfg.Validate())
	})
}
