package tabulate

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/MatthewNewland/rcvplus/core"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// EnvPrefix prefixes every environment override, e.g. RCVTALLY_SEATS.
const EnvPrefix = "RCVTALLY_"

// Config describes one election run.
type Config struct {
	// Method is a selector label; see ParseMethod
	Method string `yaml:"method"`

	Seats    int    `yaml:"seats"`
	TieBreak string `yaml:"tie_break"`
	Format   string `yaml:"format"`

	// Archive is the sqlite file outcomes are saved to; empty disables it
	Archive string `yaml:"archive"`

	// Parallel caps concurrent elections in a batch; 0 means no limit
	Parallel int `yaml:"parallel"`
}

func DefaultConfig() Config {
	return Config{
		Method:   "default",
		Seats:    1,
		TieBreak: string(core.TieInputOrder),
		Format:   FormatText,
	}
}

// LoadConfig returns the defaults overlaid with the YAML file at path.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from RCVTALLY_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "METHOD"); ok {
		c.Method = v
	}
	if v, ok := lookup(EnvPrefix + "TIE_BREAK"); ok {
		c.TieBreak = v
	}
	if v, ok := lookup(EnvPrefix + "FORMAT"); ok {
		c.Format = v
	}
	if v, ok := lookup(EnvPrefix + "ARCHIVE"); ok {
		c.Archive = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"SEATS", &c.Seats},
		{"PARALLEL", &c.Parallel},
	}
	for _, kv := range ints {
		v, ok := lookup(EnvPrefix + kv.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid value for %s%s: %s (must be a valid integer)", EnvPrefix, kv.key, v)
		}
		*kv.dst = n
	}
	return nil
}

// Validate checks the fields a run depends on.
func (c Config) Validate() error {
	if c.Seats < 1 {
		return fmt.Errorf("config: %w: got %d", core.ErrInvalidSeats, c.Seats)
	}
	if _, err := core.ParseTiePolicy(c.TieBreak); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Format {
	case FormatText, FormatJSON, FormatCBOR:
	default:
		return fmt.Errorf("config: unknown format %q", c.Format)
	}
	if c.Parallel < 0 {
		return fmt.Errorf("config: parallel must not be negative, got %d", c.Parallel)
	}
	return nil
}

// Job builds a job for this config. Ballots or parties are filled in by the caller.
func (c Config) Job(name string) (Job, error) {
	policy, err := core.ParseTiePolicy(c.TieBreak)
	if err != nil {
		return Job{}, err
	}
	return Job{
		Name:     name,
		Method:   ParseMethod(c.Method, c.Seats),
		Seats:    c.Seats,
		TieBreak: policy,
	}, nil
}
