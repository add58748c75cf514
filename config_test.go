package gpuslot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/gpuslot/model/slot"
)

func TestLoadConfig(t *testing.T) {
	testCases := []struct {
		name      string
		content   string
		expectErr bool
		check     func(t *testing.T, config *Config)
	}{
		{
			name: "overrides",
			content: `slots: 4
outputRoot: /scratch/af2
worker:
  executable: /opt/af2/run.sh
  dataDir: /db
  env:
    CUDA_CACHE_DISABLE: "1"
monitor:
  interval: 2s
log:
  maxEntries: 500
defaults:
  preset: monomer
`,
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, 4, config.Slots)
				assert.Equal(t, "/scratch/af2", config.OutputRoot)
				assert.Equal(t, "/opt/af2/run.sh", config.Worker.Executable)
				assert.Empty(t, config.Worker.Args)
				assert.Equal(t, "/db", config.Worker.DataDir)
				assert.Equal(t, "reduced_dbs", config.Worker.DBPreset)
				assert.Equal(t, map[string]string{"CUDA_CACHE_DISABLE": "1"}, config.Worker.Env)
				assert.Equal(t, 2*time.Second, config.Monitor.Interval)
				assert.Equal(t, 500, config.Log.MaxEntries)
				assert.Equal(t, slot.PresetMonomer, config.Defaults.Preset)
				assert.Equal(t, slot.RelaxNone, config.Defaults.RelaxMode)
				assert.Equal(t, ":8080", config.HTTP.Addr)
			},
		},
		{
			name:    "defaults",
			content: "{}",
			check: func(t *testing.T, config *Config) {
				assert.Equal(t, 2, config.Slots)
				assert.Equal(t, "python3", config.Worker.Executable)
				assert.Equal(t, []string{"docker/run_docker.py"}, config.Worker.Args)
				assert.Equal(t, 5*time.Second, config.Monitor.Interval)
				assert.Equal(t, slot.DefaultDefaults(), config.Defaults)
			},
		},
		{
			name:      "invalid interval",
			content:   "monitor:\n  interval: 0s\n",
			expectErr: true,
		},
		{
			name:      "invalid default preset",
			content:   "defaults:\n  preset: dimer\n",
			expectErr: true,
		},
		{
			name:      "malformed yaml",
			content:   "slots: [",
			expectErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			location := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(location, []byte(tc.content), 0o644))
			config, err := LoadConfig(context.Background(), location)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, config)
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
