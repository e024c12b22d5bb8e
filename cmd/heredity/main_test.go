package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/heredity/store"
)

// When set, the test binary runs main instead of the tests so that exit
// statuses can be checked from a child process.
const runMainEnv = "HEREDITY_RUN_MAIN"

func TestMain(m *testing.M) {
	if os.Getenv(runMainEnv) == "1" {
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

const family0 = `name,mother,father,trait
Harry,Lily,James,
James,,,1
Lily,,,0
`

const family0Output = `Harry:
  Gene:
    2: 0.0092
    1: 0.4557
    0: 0.5351
  Trait:
    True: 0.2665
    False: 0.7335
James:
  Gene:
    2: 0.1976
    1: 0.5106
    0: 0.2918
  Trait:
    True: 1.0000
    False: 0.0000
Lily:
  Gene:
    2: 0.0036
    1: 0.0136
    0: 0.9827
  Trait:
    True: 0.0000
    False: 1.0000
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunEngines(t *testing.T) {
	input := writeFile(t, "family0.csv", family0)

	for _, engine := range []string{EngineExhaustive, EngineFactorized} {
		var buf bytes.Buffer
		if err := run(context.Background(), config{Input: input, Engine: engine}, &buf); err != nil {
			t.Fatal(err)
		}
		if buf.String() != family0Output {
			t.Fatalf("%s engine output:\n%s\nExpected:\n%s", engine, buf.String(), family0Output)
		}
	}
}

func TestRunSummaryAndDB(t *testing.T) {
	input := writeFile(t, "family0.csv", family0)
	db := filepath.Join(t.TempDir(), "out.sqlite")

	var buf bytes.Buffer
	if err := run(context.Background(), config{Input: input, Engine: EngineExhaustive, Summary: true, DBPath: db}, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Population (3 people):") {
		t.Fatalf("Summary missing from output:\n%s", buf.String())
	}

	rows, err := store.Load(db)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0].Name != "Harry" {
		t.Fatalf("Unexpected rows: %+v", rows)
	}
}

func TestRunCustomTable(t *testing.T) {
	input := writeFile(t, "solo.csv", "name,mother,father,trait\nSolo,,,\n")
	table := writeFile(t, "cpt.json", `{"gene": {"0": 0, "1": 0, "2": 1}}`)

	var buf bytes.Buffer
	if err := run(context.Background(), config{Input: input, Engine: EngineExhaustive, CPTPath: table}, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "    2: 1.0000") {
		t.Fatalf("Expected certainty of two copies:\n%s", buf.String())
	}
}

func TestRunErrors(t *testing.T) {
	good := writeFile(t, "family0.csv", family0)
	bad := writeFile(t, "bad.csv", "name,mother,father,trait\nHarry,Lily,,\nLily,,,\n")

	for name, cfg := range map[string]config{
		"unknown engine": {Input: good, Engine: "sampling"},
		"malformed":      {Input: bad, Engine: EngineExhaustive},
		"missing file":   {Input: filepath.Join(t.TempDir(), "nope.csv"), Engine: EngineExhaustive},
		"missing cpt":    {Input: good, Engine: EngineExhaustive, CPTPath: filepath.Join(t.TempDir(), "nope.json")},
	} {
		var buf bytes.Buffer
		if err := run(context.Background(), cfg, &buf); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
		if buf.Len() != 0 {
			t.Fatalf("%s: nothing should be printed on failure, got:\n%s", name, buf.String())
		}
	}
}

func TestParseArgs(t *testing.T) {
	var buf bytes.Buffer
	cfg, err := parseArgs([]string{"-engine", EngineFactorized, "-summary", "-db", "out.sqlite", "family0.csv"}, &buf)
	if err != nil {
		t.Fatal(err)
	}
	expected := config{Input: "family0.csv", Engine: EngineFactorized, Summary: true, DBPath: "out.sqlite"}
	if cfg != expected {
		t.Fatalf("Got %+v, expected %+v", cfg, expected)
	}
	if buf.Len() != 0 {
		t.Fatalf("Nothing should be printed on success, got:\n%s", buf.String())
	}

	if cfg, err := parseArgs([]string{"family0.csv"}, &buf); err != nil || cfg.Engine != EngineExhaustive {
		t.Fatalf("Expected the exhaustive engine by default, got %+v (%v)", cfg, err)
	}
}

func TestParseArgsUsage(t *testing.T) {
	for name, args := range map[string][]string{
		"no input":        {},
		"two inputs":      {"a.csv", "b.csv"},
		"flags but input": {"-summary"},
	} {
		var buf bytes.Buffer
		if _, err := parseArgs(args, &buf); !errors.Is(err, errUsage) {
			t.Fatalf("%s: expected errUsage, got %v", name, err)
		}
		if !strings.Contains(buf.String(), "Usage: ") || !strings.Contains(buf.String(), "-engine") {
			t.Fatalf("%s: usage was not printed:\n%s", name, buf.String())
		}
	}

	var buf bytes.Buffer
	if _, err := parseArgs([]string{"-nope", "a.csv"}, &buf); err == nil || errors.Is(err, errUsage) {
		t.Fatalf("Expected a flag error for an unknown flag, got %v", err)
	}
	if !strings.Contains(buf.String(), "Usage: ") {
		t.Fatalf("Usage was not printed for an unknown flag:\n%s", buf.String())
	}

	if _, err := parseArgs([]string{"-h"}, &buf); err != flag.ErrHelp {
		t.Fatalf("Expected flag.ErrHelp, got %v", err)
	}
}

func TestUsageExitStatus(t *testing.T) {
	input := writeFile(t, "family0.csv", family0)

	for name, args := range map[string][]string{
		"no input":     {},
		"two inputs":   {input, input},
		"unknown flag": {"-nope", input},
	} {
		cmd := exec.Command(os.Args[0], args...)
		cmd.Env = append(os.Environ(), runMainEnv+"=1")
		var stdout, stderr bytes.Buffer
		cmd.Stdout, cmd.Stderr = &stdout, &stderr

		err := cmd.Run()

		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("%s: expected a nonzero exit, got %v", name, err)
		}
		if code := exitErr.ExitCode(); code != 2 {
			t.Fatalf("%s: expected exit status 2, got %d", name, code)
		}
		if stdout.Len() != 0 {
			t.Fatalf("%s: nothing should be written to stdout, got:\n%s", name, stdout.String())
		}
		if !strings.Contains(stderr.String(), "Usage: ") {
			t.Fatalf("%s: usage missing from stderr:\n%s", name, stderr.String())
		}
	}
}

func TestMainSucceeds(t *testing.T) {
	cmd := exec.Command(os.Args[0], writeFile(t, "family0.csv", family0))
	cmd.Env = append(os.Environ(), runMainEnv+"=1")

	out, err := cmd.Output()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != family0Output {
		t.Fatalf("Got:\n%s\nExpected:\n%s", out, family0Output)
	}
}
