package retrodisasm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.Disassembly.WarnOutOfRangeBranch)
	assert.False(t, cfg.Disassembly.ForceReverse)
	assert.Equal(t, uint64(0), cfg.Disassembly.LoadAddr)
	assert.Equal(t, uint64(0), cfg.Progress.ReportIntervalWords)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
[disassembly]
warn_out_of_range_branch = false
load_addr = 32768

[progress]
report_interval_words = 1000
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Disassembly.WarnOutOfRangeBranch)
	assert.Equal(t, uint64(32768), cfg.Disassembly.LoadAddr)
	assert.Equal(t, uint64(1000), cfg.Progress.ReportIntervalWords)
	// force_reverse was omitted; it should keep the default.
	assert.False(t, cfg.Disassembly.ForceReverse)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err)
}
