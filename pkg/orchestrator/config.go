package orchestrator

import (
	"io"
	"time"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/uniquepfp/pkg/errors"
	"github.com/matzehuels/uniquepfp/pkg/rng"
)

// Default timing and sizing values.
const (
	DefaultOutputSize      = 1000
	DefaultQuickSize       = 100
	DefaultSupersampleSize = 2000
	DefaultSettleDelay     = 100 * time.Millisecond
	DefaultDebounce        = 10 * time.Millisecond
	DefaultAsyncThreshold  = 750
	DefaultFrameBudget     = 16 * time.Millisecond
)

// Config controls pass sizes, scheduling delays and yielding. Durations are
// written as strings in TOML, e.g. settle_delay = "250ms".
type Config struct {
	// OutputSize is the edge length of the visible surface.
	OutputSize int `toml:"output_size"`

	// QuickSize is the edge length of the immediate low-resolution pass.
	QuickSize int `toml:"quick_size"`

	// SupersampleSize is the edge length of the delayed high-resolution pass.
	SupersampleSize int `toml:"supersample_size"`

	// SettleDelay is how long input must stay unchanged before the
	// supersample pass starts.
	SettleDelay time.Duration `toml:"settle_delay"`

	// Debounce coalesces bursts of text input.
	Debounce time.Duration `toml:"debounce"`

	// AsyncThreshold is the smallest size rendered with cooperative yielding.
	AsyncThreshold int `toml:"async_threshold"`

	// AsyncSmall forces yielding for renders below AsyncThreshold.
	AsyncSmall bool `toml:"async_small"`

	// FrameBudget is how long a yielding render runs between yields.
	FrameBudget time.Duration `toml:"frame_budget"`

	// RNG names the random source, see [rng.Names].
	RNG string `toml:"rng"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		OutputSize:      DefaultOutputSize,
		QuickSize:       DefaultQuickSize,
		SupersampleSize: DefaultSupersampleSize,
		SettleDelay:     DefaultSettleDelay,
		Debounce:        DefaultDebounce,
		AsyncThreshold:  DefaultAsyncThreshold,
		AsyncSmall:      false,
		FrameBudget:     DefaultFrameBudget,
		RNG:             rng.DefaultName,
	}
}

// LoadConfig reads a TOML file over the defaults. An empty path returns
// [DefaultConfig].
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return finishDecode(cfg, md)
}

// DecodeConfig reads TOML from r over the defaults.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "decode config")
	}
	return finishDecode(cfg, md)
}

func finishDecode(cfg Config, md toml.MetaData) (Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, perrors.New(perrors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks sizes, durations and the RNG name.
func (c Config) Validate() error {
	sizes := []struct {
		name string
		v    int
	}{
		{"output_size", c.OutputSize},
		{"quick_size", c.QuickSize},
		{"supersample_size", c.SupersampleSize},
	}
	for _, s := range sizes {
		if err := perrors.ValidateSize(s.v); err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "%s", s.name)
		}
	}
	if c.SettleDelay < 0 || c.Debounce < 0 || c.FrameBudget < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "durations must not be negative")
	}
	if c.AsyncThreshold < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "async_threshold must not be negative")
	}
	if _, err := rng.Lookup(c.RNG); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "rng")
	}
	return nil
}

// Async reports whether a pass of the given size yields cooperatively.
func (c Config) Async(size int) bool {
	return size >= c.AsyncThreshold || c.AsyncSmall
}
