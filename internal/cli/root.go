// Package cli defines the interviewctl commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aiinterviewer/internal/config"
	"aiinterviewer/internal/logging"
)

var version = "dev" // set via ldflags at build time

type options struct {
	configPath string
	logLevel   string
	store      string
	sqlitePath string

	cfg *config.Config
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "interviewctl",
		Short:         "Run and inspect adaptive research interviews",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file (overrides INTERVIEWER_CONFIG)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.store, "store", "", "store backend: mongo or sqlite")
	flags.StringVar(&opts.sqlitePath, "sqlite-path", "", "sqlite database file")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newSeedCmd(opts))
	root.AddCommand(newChatCmd(opts))
	root.AddCommand(newSummaryCmd(opts))
	root.AddCommand(newTemplatesCmd(opts))
	return root
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (o *options) load(cmd *cobra.Command) error {
	cfg := config.FromEnv()
	path := o.configPath
	if path == "" {
		path = os.Getenv("INTERVIEWER_CONFIG")
	}
	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return err
		}
	}
	if o.store != "" {
		cfg.Store.Backend = o.store
	}
	if o.sqlitePath != "" {
		cfg.SQLite.Path = o.sqlitePath
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logging.Setup(cfg.Log, cmd.ErrOrStderr()); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}
