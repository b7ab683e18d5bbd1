// Package cmd implements the skipscan command tree.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/mhr3/skipscan/internal/config"
	"github.com/mhr3/skipscan/internal/presence"
	"github.com/mhr3/skipscan/internal/secret"
	"github.com/mhr3/skipscan/internal/store"
	"github.com/spf13/cobra"
)

// env is the process state commands read from. Tests swap it out.
type env struct {
	getenv func(string) string
	getwd  func() (string, error)
	now    func() time.Time
}

func osEnv() *env {
	return &env{getenv: os.Getenv, getwd: os.Getwd, now: time.Now}
}

// app carries flag values and resolved state for one invocation.
type app struct {
	env  *env
	opts config.Options
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd(osEnv()).Execute()
}

func newRootCmd(e *env) *cobra.Command {
	a := &app{env: e}
	root := &cobra.Command{
		Use:           "skipscan",
		Short:         "skipscan: Boyer-Moore substring search",
		Long:          "Exact substring search over files and stdin, plus a small chat store whose history is searchable.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	f := root.PersistentFlags()
	f.StringVar(&a.opts.Root, "root", "", "Project root holding .skipscan/ (default: cwd)")
	f.StringVar(&a.opts.SecretKey, "key", "", "Base64 AES key (default: $"+config.EnvKey+")")
	f.DurationVar(&a.opts.OnlineWindow, "online-window", config.DefaultOnlineWindow, "How long a user stays online after activity")
	f.BoolVarP(&a.opts.Verbose, "verbose", "v", false, "Print diagnostics on stderr")

	root.AddCommand(
		a.searchCmd(),
		a.watchCmd(),
		a.userCmd(),
		a.sendCmd(),
		a.roomCmd(),
		a.seenCmd(),
		a.statusCmd(),
		a.secretCmd(),
		a.configCmd(),
	)
	return root
}

// config resolves flags and environment into a Config.
func (a *app) config() (config.Config, error) {
	opts := a.opts
	if opts.Root == "" {
		wd, err := a.env.getwd()
		if err != nil {
			return config.Config{}, err
		}
		opts.Root = wd
	}
	return config.Load(opts, a.env.getenv)
}

// openStore opens the project database, creating .skipscan/ when missing.
func (a *app) openStore(cmd *cobra.Command) (*store.Store, config.Config, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, cfg, err
	}
	if err := os.MkdirAll(cfg.Paths.Root, 0755); err != nil {
		return nil, cfg, fmt.Errorf("create %s: %w", cfg.Paths.Root, err)
	}
	s, err := store.Open(cfg.Paths.DB)
	if err != nil {
		return nil, cfg, err
	}
	a.debugf(cmd, "opened %s", cfg.Paths.DB)
	return s, cfg, nil
}

func (a *app) tracker(s *store.Store, cfg config.Config) *presence.Tracker {
	return presence.NewTracker(s, cfg.OnlineWindow, a.env.now)
}

// box returns the field cipher, or secret.ErrNoKey when no key is configured.
func (a *app) box(cfg config.Config) (*secret.Box, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("set --key or $%s: %w", config.EnvKey, secret.ErrNoKey)
	}
	return secret.NewBox(cfg.SecretKey)
}

func (a *app) debugf(cmd *cobra.Command, format string, args ...any) {
	if a.opts.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipscan: "+format+"\n", args...)
	}
}
