package tabulate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/MatthewNewland/rcvplus/core"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.NoError(t, err)
	check.Equal(t, DefaultConfig(), cfg)
	check.Equal(t, 1, cfg.Seats)
	check.Equal(t, "input", cfg.TieBreak)
	check.Equal(t, FormatText, cfg.Format)
	check.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "election.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("method: stv\nseats: 3\ntie_break: lexical\n"), 0o600))

	cfg, err := LoadConfig(path)
	assert.NoError(t, err)
	check.Equal(t, "stv", cfg.Method)
	check.Equal(t, 3, cfg.Seats)
	check.Equal(t, "lexical", cfg.TieBreak)

	// fields absent from the file keep their defaults
	check.Equal(t, FormatText, cfg.Format)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	check.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("seats: [1, 2]\n"), 0o600))
	_, err = LoadConfig(path)
	check.Error(t, err)
}

func TestConfig_ApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(envMap(map[string]string{
		"RCVTALLY_METHOD":   "webster",
		"RCVTALLY_SEATS":    "7",
		"RCVTALLY_FORMAT":   "json",
		"RCVTALLY_ARCHIVE":  "runs.db",
		"RCVTALLY_PARALLEL": "4",
	}))
	assert.NoError(t, err)

	check.Equal(t, "webster", cfg.Method)
	check.Equal(t, 7, cfg.Seats)
	check.Equal(t, FormatJSON, cfg.Format)
	check.Equal(t, "runs.db", cfg.Archive)
	check.Equal(t, 4, cfg.Parallel)
	check.Equal(t, "input", cfg.TieBreak)
}

func TestConfig_ApplyEnvInvalid(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(envMap(map[string]string{"RCVTALLY_SEATS": "three"}))
	check.Error(t, err)
	check.Equal(t, 1, cfg.Seats)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero seats", func(c *Config) { c.Seats = 0 }},
		{"unknown tie policy", func(c *Config) { c.TieBreak = "coin" }},
		{"unknown format", func(c *Config) { c.Format = "xml" }},
		{"negative parallel", func(c *Config) { c.Parallel = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			check.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.Seats = 0
	check.True(t, errors.Is(cfg.Validate(), core.ErrInvalidSeats))
}

func TestConfig_Job(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seats = 2
	cfg.TieBreak = "lexical"

	job, err := cfg.Job("ballots.json")
	assert.NoError(t, err)
	check.Equal(t, "ballots.json", job.Name)
	check.Equal(t, core.MethodSTV, job.Method)
	check.Equal(t, 2, job.Seats)
	check.Equal(t, core.TieLexical, job.TieBreak)

	cfg.TieBreak = "coin"
	_, err = cfg.Job("x")
	check.Error(t, err)
}
