package u32sort

import (
	"io"
	"log/slog"
	"runtime"

	"github.com/lanrat/u32sort/internal/raw"
	"github.com/lanrat/u32sort/tempfile"
)

// DefaultMemoryBudget is the memory budget used when none is configured.
const DefaultMemoryBudget = 128 << 20 // 128MiB

// Config holds configuration settings for a sort run
type Config struct {
	MemoryBudget  int64        // bytes available for element buffers across all workers and the merge
	Threads       int          // number of sort workers, each owning one partition of the input
	ScratchDir    string       // directory for scratch segments, empty for the working directory
	ScratchPrefix string       // filename prefix for scratch segments
	FS            tempfile.FS  // file system holding the input, output and scratch files
	Logger        *slog.Logger // progress and diagnostics, nil discards them
}

// DefaultConfig returns the configuration used if none is provided.
// Threads defaults to the number of CPUs.
func DefaultConfig() *Config {
	return &Config{
		MemoryBudget:  DefaultMemoryBudget,
		Threads:       max(runtime.NumCPU(), 1),
		ScratchDir:    "",
		ScratchPrefix: tempfile.DefaultPrefix,
		FS:            tempfile.OS,
	}
}

// mergeConfig returns a copy of c with unset values replaced by the defaults.
// Negative values are kept so validate can report them.
func mergeConfig(c *Config) *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	m := *c
	if m.MemoryBudget == 0 {
		m.MemoryBudget = d.MemoryBudget
	}
	if m.Threads == 0 {
		m.Threads = d.Threads
	}
	if m.ScratchPrefix == "" {
		m.ScratchPrefix = d.ScratchPrefix
	}
	if m.FS == nil {
		m.FS = d.FS
	}
	// skipping ScratchDir as the empty string selects the working directory
	return &m
}

// validate checks that c describes a run that can make progress.
func (c *Config) validate() error {
	if c.MemoryBudget <= 0 {
		return &ConfigError{Field: "MemoryBudget", Value: c.MemoryBudget, Reason: "must be positive"}
	}
	if c.Threads < 1 {
		return &ConfigError{Field: "Threads", Value: c.Threads, Reason: "must be at least 1"}
	}
	if p := Plan(0, c.MemoryBudget, c.Threads); p.ThreadMemory < raw.ElementSize {
		return &ConfigError{
			Field:  "MemoryBudget",
			Value:  c.MemoryBudget,
			Reason: "too small to hold one element per worker frame",
		}
	}
	return nil
}

// logger returns the configured logger, or a discard logger if nil.
func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
