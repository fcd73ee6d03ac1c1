package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/MatthewNewland/rcvplus/ballotfile"
	"github.com/MatthewNewland/rcvplus/core"
	"github.com/MatthewNewland/rcvplus/report"
)

// condorcetBallots elects B under IRV and C under BTR-IRV.
const condorcetBallots = `[
	{"ranking": ["A", "C", "B"], "count": 4},
	{"ranking": ["B", "C"], "count": 3},
	{"ranking": ["C", "B"], "count": 2}
]`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExecute_TextReport(t *testing.T) {
	path := writeInput(t, "ballots.json", condorcetBallots)

	code, out, _ := run(t, "--method", "irv", path)
	check.Equal(t, exitOK, code)
	check.True(t, strings.Contains(out, "9 ballots cast"))
	check.True(t, strings.Contains(out, "5 votes to win"))
	check.True(t, strings.Contains(out, "Result: B wins"))
}

func TestExecute_DefaultMethod(t *testing.T) {
	// one seat and no method label selects BTR-IRV
	code, out, _ := run(t, condorcetBallots)
	check.Equal(t, exitOK, code)
	check.True(t, strings.Contains(out, "B eliminated: B 3, C 6"))
	check.True(t, strings.Contains(out, "Result: C wins"))
}

func TestExecute_JSON(t *testing.T) {
	code, out, _ := run(t, "-m", "stv", "--seats", "2", "--format", "json", condorcetBallots)
	check.Equal(t, exitOK, code)

	var doc report.Document
	assert.NoError(t, json.Unmarshal([]byte(out), &doc))
	check.Equal(t, core.MethodSTV, doc.Method)
	check.Equal(t, []string{"A", "C"}, doc.Winners)
	check.NotEqual(t, "", doc.RunID)
	check.NotEqual(t, "", doc.Fingerprint)
}

func TestExecute_CBOR(t *testing.T) {
	code, out, _ := run(t, "-m", "irv", "--format", "cbor", condorcetBallots)
	check.Equal(t, exitOK, code)

	doc, err := report.DecodeCBOR([]byte(out))
	assert.NoError(t, err)
	check.Equal(t, []string{"B"}, doc.Winners)
}

func TestExecute_Webster(t *testing.T) {
	path := writeInput(t, "parties.yaml", "A: 53000\nB: 24000\nC: 23000\n")

	code, out, _ := run(t, "--method", "pr", "--seats", "7", path)
	check.Equal(t, exitOK, code)
	check.True(t, strings.Contains(out, "7 seats apportioned"))
	check.True(t, strings.Contains(out, "Seat 7: C"))
}

func TestExecute_UnfilledSeats(t *testing.T) {
	code, out, _ := run(t, "-m", "stv", "--seats", "2", `[{"ranking": ["A"]}]`)
	check.Equal(t, exitUnfilled, code)
	check.True(t, strings.Contains(out, "Seat 1: A wins"))
	check.True(t, strings.Contains(out, "1 seat(s) left unfilled"))
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no input", nil},
		{"missing file", []string{"missing.json"}},
		{"duplicate ranking", []string{`[{"ranking": ["A", "A"]}]`}},
		{"zero seats", []string{"--seats", "0", condorcetBallots}},
		{"bad tie policy", []string{"--tie-break", "coin", condorcetBallots}},
		{"bad format", []string{"--format", "xml", condorcetBallots}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := run(t, tt.args...)
			check.Equal(t, exitInvalidRun, code)
		})
	}
}

func TestExecute_ConfigAndEnv(t *testing.T) {
	cfg := writeInput(t, "election.yaml", "method: irv\nformat: json\n")

	// the file picks IRV and JSON
	code, out, _ := run(t, "--config", cfg, condorcetBallots)
	check.Equal(t, exitOK, code)
	check.True(t, strings.Contains(out, `"method": "irv"`))

	// the environment overrides the file
	t.Setenv("RCVTALLY_METHOD", "btr")
	code, out, _ = run(t, "--config", cfg, condorcetBallots)
	check.Equal(t, exitOK, code)
	check.True(t, strings.Contains(out, `"method": "btr-irv"`))

	// flags override both
	code, out, _ = run(t, "--config", cfg, "--format", "text", condorcetBallots)
	check.Equal(t, exitOK, code)
	check.True(t, strings.Contains(out, "Result: C wins"))
}

func TestExecute_Batch(t *testing.T) {
	first := writeInput(t, "first.json", condorcetBallots)
	second := writeInput(t, "second.json", `[{"ranking": ["X", "Y"], "count": 2}, {"ranking": ["Y"]}]`)

	code, out, _ := run(t, "-m", "irv", "--parallel", "2", first, second)
	check.Equal(t, exitOK, code)
	check.Equal(t, 2, strings.Count(out, "== run "))
	check.True(t, strings.Index(out, "Result: B wins") < strings.Index(out, "Result: X wins"))
}

func TestExecute_ArchiveHistoryShow(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	path := writeInput(t, "ballots.json", condorcetBallots)

	code, out, _ := run(t, "-m", "irv", "--format", "json", "--archive", db, path)
	assert.Equal(t, exitOK, code)
	var doc report.Document
	assert.NoError(t, json.Unmarshal([]byte(out), &doc))

	ballots, err := ballotfile.LoadBallots(path)
	assert.NoError(t, err)
	check.Equal(t, core.ComputeBallotsHash(ballots), doc.Fingerprint)

	code, out, _ = run(t, "history", "--archive", db, doc.Fingerprint)
	check.Equal(t, exitOK, code)
	check.True(t, strings.Contains(out, doc.RunID))

	code, out, _ = run(t, "history", "--archive", db, "--format", "json", doc.Fingerprint)
	check.Equal(t, exitOK, code)
	check.True(t, strings.Contains(out, `"run_id": "`+doc.RunID+`"`))

	code, out, _ = run(t, "show", "--archive", db, doc.RunID)
	check.Equal(t, exitOK, code)
	check.True(t, strings.Contains(out, "Result: B wins"))

	code, out, _ = run(t, "history", "--archive", db, "unknown")
	check.Equal(t, exitOK, code)
	check.True(t, strings.Contains(out, "no archived runs"))

	code, _, _ = run(t, "show", "--archive", db, "missing")
	check.Equal(t, exitInvalidRun, code)

	code, _, _ = run(t, "show", "missing")
	check.Equal(t, exitInvalidRun, code)
}

func TestExecute_VerboseLogs(t *testing.T) {
	code, _, logs := run(t, "-v", "-m", "irv", condorcetBallots)
	check.Equal(t, exitOK, code)
	check.True(t, strings.Contains(logs, `"msg":"round complete"`))
	check.True(t, strings.Contains(logs, `"msg":"tabulation complete"`))

	code, _, logs = run(t, "-m", "irv", condorcetBallots)
	check.Equal(t, exitOK, code)
	check.False(t, strings.Contains(logs, "round complete"))
}
