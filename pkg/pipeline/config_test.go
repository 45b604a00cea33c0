package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	apperr "github.com/matzehuels/flowplan/pkg/errors"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "config.toml", `
input = "input.txt"
start = "BB"
mode = "dual"
dual_budget = 20
strategy = "balanced"
workers = 4
formats = ["svg", "json"]
routes = true
cache = "redis"
redis_addr = "localhost:6379"
`)
	opts, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if opts.Input != "input.txt" || opts.Start != "BB" || opts.Mode != "dual" {
		t.Errorf("input/start/mode = %q %q %q", opts.Input, opts.Start, opts.Mode)
	}
	if opts.DualBudget != 20 || opts.Workers != 4 || opts.Strategy != "balanced" {
		t.Errorf("dual_budget/workers/strategy = %d %d %q", opts.DualBudget, opts.Workers, opts.Strategy)
	}
	if len(opts.Formats) != 2 || !opts.Routes {
		t.Errorf("formats/routes = %v %v", opts.Formats, opts.Routes)
	}
	if opts.CacheBackend != CacheRedis || opts.RedisAddr != "localhost:6379" {
		t.Errorf("cache = %q %q", opts.CacheBackend, opts.RedisAddr)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !apperr.Is(err, apperr.ErrCodeFileNotFound) {
		t.Errorf("missing file: error = %v", err)
	}

	bad := writeFile(t, "bad.toml", "mode = ")
	if _, err := LoadConfig(bad); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("bad syntax: error = %v", err)
	}

	typo := writeFile(t, "typo.toml", `stratgy = "half"`)
	if _, err := LoadConfig(typo); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("unknown key: error = %v", err)
	}
}

func TestMerge(t *testing.T) {
	base := Options{
		Input:        "base.txt",
		Start:        "AA",
		Mode:         ModeDual,
		DualBudget:   20,
		Workers:      4,
		Formats:      []string{"svg"},
		CacheBackend: CacheNone,
		Routes:       true,
	}
	flags := Options{Mode: ModeSingle, Workers: 2}
	flags.Merge(base)

	if flags.Mode != ModeSingle || flags.Workers != 2 {
		t.Errorf("flag values should win: mode=%q workers=%d", flags.Mode, flags.Workers)
	}
	if flags.Input != "base.txt" || flags.DualBudget != 20 || flags.CacheBackend != CacheNone || !flags.Routes {
		t.Errorf("config values should fill gaps: %+v", flags)
	}

	inline := Options{Text: "Valve AA has flow rate=0; tunnels lead to valves"}
	inline.Merge(base)
	if inline.Input != "" {
		t.Error("inline text should not be replaced by the config input")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	path, err := DefaultConfigPath("flowplan")
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join("/tmp/cfg", "flowplan", ConfigFile) {
		t.Errorf("DefaultConfigPath() = %s", path)
	}
}
