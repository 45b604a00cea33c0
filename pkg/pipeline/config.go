package pipeline

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	apperr "github.com/matzehuels/flowplan/pkg/errors"
)

// ConfigFile is the file name looked up in the user config directory.
const ConfigFile = "config.toml"

// LoadConfig reads pipeline options from a TOML file. Keys unknown to
// Options are rejected so that typos do not pass silently.
//
//	input    = "input.txt"
//	start    = "AA"
//	mode     = "both"
//	strategy = "half"
//	workers  = 8
//	cache    = "redis"
//	redis_addr = "localhost:6379"
func LoadConfig(path string) (Options, error) {
	var opts Options
	md, err := toml.DecodeFile(path, &opts)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Options{}, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Options{}, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Options{}, apperr.New(apperr.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}
	return opts, nil
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/<app>/config.toml, falling back
// to ~/.config/<app>/config.toml.
func DefaultConfigPath(app string) (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, app, ConfigFile), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", app, ConfigFile), nil
}

// Merge fills every zero-valued field of o from base. Fields set in o win,
// so callers merge config files under command-line flags.
func (o *Options) Merge(base Options) {
	if o.Input == "" && o.Text == "" && o.Graph == nil {
		o.Input = base.Input
	}
	if o.Start == "" {
		o.Start = base.Start
	}
	if o.Mode == "" {
		o.Mode = base.Mode
	}
	if o.SingleBudget == 0 {
		o.SingleBudget = base.SingleBudget
	}
	if o.DualBudget == 0 {
		o.DualBudget = base.DualBudget
	}
	if o.Strategy == "" {
		o.Strategy = base.Strategy
	}
	if o.Workers == 0 {
		o.Workers = base.Workers
	}
	if o.Timeout == 0 {
		o.Timeout = base.Timeout
	}
	if len(o.Formats) == 0 {
		o.Formats = base.Formats
	}
	o.Compressed = o.Compressed || base.Compressed
	o.Routes = o.Routes || base.Routes
	o.Refresh = o.Refresh || base.Refresh
	if o.CacheBackend == "" {
		o.CacheBackend = base.CacheBackend
	}
	if o.RedisAddr == "" {
		o.RedisAddr = base.RedisAddr
	}
}
