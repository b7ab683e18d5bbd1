// Package config resolves the on-disk layout and runtime settings for skipscan.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/mhr3/skipscan/internal/secret"
)

// EnvKey names the environment variable holding the base64 AES key.
const EnvKey = "SKIPSCAN_AES_KEY"

// DefaultOnlineWindow is how long after the last activity a user counts as online.
const DefaultOnlineWindow = 5 * time.Minute

// Paths holds resolved filesystem paths for the .skipscan/ directory.
type Paths struct {
	Root string // .skipscan/
	DB   string // .skipscan/skipscan.db
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".skipscan")
	return &Paths{
		Root: root,
		DB:   filepath.Join(root, "skipscan.db"),
	}
}

// Config is the fully resolved runtime configuration.
type Config struct {
	Paths        *Paths
	SecretKey    string // base64, may be empty
	OnlineWindow time.Duration
	Verbose      bool
}

// Options carries the raw values gathered from flags.
type Options struct {
	Root         string
	SecretKey    string
	OnlineWindow time.Duration
	Verbose      bool
}

// Load merges flag values with the environment. A key given as a flag wins
// over the environment. A present key must be well formed.
func Load(opts Options, getenv func(string) string) (Config, error) {
	if opts.Root == "" {
		return Config{}, fmt.Errorf("config: empty root")
	}
	cfg := Config{
		Paths:        NewPaths(opts.Root),
		SecretKey:    opts.SecretKey,
		OnlineWindow: opts.OnlineWindow,
		Verbose:      opts.Verbose,
	}
	if cfg.SecretKey == "" && getenv != nil {
		cfg.SecretKey = getenv(EnvKey)
	}
	if cfg.SecretKey != "" {
		if _, err := secret.ParseKey(cfg.SecretKey); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", EnvKey, err)
		}
	}
	if cfg.OnlineWindow <= 0 {
		cfg.OnlineWindow = DefaultOnlineWindow
	}
	return cfg, nil
}
