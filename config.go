package retrodisasm

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds the toggles a user may vary between runs without editing an
// instruction-set description: whether an out-of-range branch target is a
// fatal error or a warning, whether to force bit-reversed masks regardless
// of the description's own header, and how often to report progress on a
// long-running disassembly.
//
// Grounded on lookbusy1344-arm_emulator's config/config.go: nested,
// toml-tagged sections with a DefaultConfig constructor.
type Config struct {
	Disassembly DisassemblyConfig `toml:"disassembly"`
	Progress    ProgressConfig    `toml:"progress"`
}

// DisassemblyConfig controls label-pass and emit-pass behavior.
type DisassemblyConfig struct {
	// WarnOutOfRangeBranch, when true (the default), makes a branch target
	// outside [0, word count) a non-fatal stderr warning rather than an
	// aborting error.
	WarnOutOfRangeBranch bool `toml:"warn_out_of_range_branch"`

	// ForceReverse mirrors the -reverse CLI flag: true forces
	// InstructionSet.ReverseWidth := WordsizeBytes regardless of whether
	// the description's own "reversed" header keyword was present.
	ForceReverse bool `toml:"force_reverse"`

	// LoadAddr is added to every FieldAddr operand before it is rendered,
	// so addresses in the listing reflect where the binary is actually
	// loaded rather than its offset within the input file. Zero (the
	// default) leaves FieldAddr operands unshifted.
	LoadAddr uint64 `toml:"load_addr"`
}

// ProgressConfig controls the optional progress ticker on the emit pass.
type ProgressConfig struct {
	// ReportIntervalWords, when nonzero, makes the emitter write a
	// "decoded N/M words" line to its diagnostics writer every N words.
	// Zero disables progress reporting.
	ReportIntervalWords uint64 `toml:"report_interval_words"`
}

// DefaultConfig returns the configuration used when no config file is
// given on the command line.
func DefaultConfig() *Config {
	return &Config{
		Disassembly: DisassemblyConfig{
			WarnOutOfRangeBranch: true,
			ForceReverse:         false,
			LoadAddr:             0,
		},
		Progress: ProgressConfig{
			ReportIntervalWords: 0,
		},
	}
}

// LoadConfig reads a TOML config file at path, starting from
// DefaultConfig so an omitted section keeps its default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("loading config %q: %w", path, err)
	}
	return cfg, nil
}
