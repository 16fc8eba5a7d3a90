package codec

import (
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/wippyai/utf8codec/errors"
	"github.com/wippyai/utf8codec/transcoder"
)

// EnvStrategy forces a strategy by name, overriding the config file.
const EnvStrategy = "UTF8CODEC_STRATEGY"

// DefaultOrder is the probe order when Config.Order is empty.
var DefaultOrder = []string{NameNative, NamePure}

// Config selects and tunes a strategy. The zero value probes DefaultOrder with
// lossy semantics and the default size limit.
//
//	strategy = "pure"            # skip probing
//	order    = ["native", "pure"]
//	disabled = ["native"]
//	strict   = false
//	lone_low = "replace"         # or "encode"
//	max_size = 1048576           # bytes, -1 for unlimited
type Config struct {
	Strategy string   `toml:"strategy"`
	Order    []string `toml:"order"`
	Disabled []string `toml:"disabled"`
	Strict   bool     `toml:"strict"`
	LoneLow  string   `toml:"lone_low"`
	MaxSize  int      `toml:"max_size"`
}

// LoadConfig reads a TOML config file and applies the environment override.
// Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decode "+path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path(path).
			Detail("unknown keys: %s", strings.Join(keys, ", ")).
			Build()
	}

	cfg = cfg.WithEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithEnv returns a copy of c with EnvStrategy applied.
func (c Config) WithEnv() Config {
	if name := strings.TrimSpace(os.Getenv(EnvStrategy)); name != "" {
		c.Strategy = strings.ToLower(name)
	}
	return c
}

func (c Config) Validate() error {
	for _, name := range c.names() {
		if !known(name) {
			return errors.NotFound(errors.PhaseConfig, "strategy", name)
		}
	}
	if _, ok := transcoder.ParseLoneLowPolicy(c.LoneLow); !ok {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("lone_low").
			Detail("unknown policy %q, want \"replace\" or \"encode\"", c.LoneLow).
			Build()
	}
	if c.MaxSize < transcoder.Unlimited {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("max_size").
			Detail("max_size %d is negative; use -1 for unlimited", c.MaxSize).
			Build()
	}
	return nil
}

// Options converts the tuning fields to transcoder options.
func (c Config) Options() (transcoder.Options, error) {
	policy, ok := transcoder.ParseLoneLowPolicy(c.LoneLow)
	if !ok {
		return transcoder.Options{}, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path("lone_low").
			Detail("unknown policy %q", c.LoneLow).
			Build()
	}
	return transcoder.Options{
		Strict:  c.Strict,
		LoneLow: policy,
		MaxSize: c.MaxSize,
	}, nil
}

func (c Config) order() []string {
	if len(c.Order) == 0 {
		return DefaultOrder
	}
	return c.Order
}

func (c Config) disabled(name string) bool {
	return slices.Contains(c.Disabled, name)
}

func (c Config) names() []string {
	names := append([]string{}, c.Order...)
	names = append(names, c.Disabled...)
	if c.Strategy != "" {
		names = append(names, c.Strategy)
	}
	return names
}

func known(name string) bool {
	return name == NameNative || name == NamePure
}
