// SPDX-License-Identifier: MIT

// Package cli wires the agora commands.
package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/agora/config"
	"github.com/katalvlaran/agora/store"
)

// Execute runs the root command.
func Execute() error {
	return NewRoot().Execute()
}

// env is the state shared by every subcommand after flag parsing.
type env struct {
	configPath string
	dbPath     string
	level      string

	cfg *config.Config
	log *log.Logger
}

// load reads the configuration and applies flag overrides.
func (e *env) load(cmd *cobra.Command) error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	if e.dbPath != "" {
		cfg.Store.Path = e.dbPath
	}
	if e.level != "" {
		cfg.Log.Level = e.level
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	logger, err := cfg.Log.Logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	e.cfg, e.log = cfg, logger

	return nil
}

func (e *env) openStore() (*store.Store, error) {
	st, err := e.cfg.Store.Open()
	if err != nil {
		return nil, err
	}
	e.log.Debug("store opened", "path", e.cfg.Store.Path)

	return st, nil
}

// NewRoot builds the command tree.
func NewRoot() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:          "agora",
		Short:        "Opinion-group analysis for deliberation platforms",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&e.configPath, "config", "agora.yaml", "Path to the YAML configuration")
	root.PersistentFlags().StringVar(&e.dbPath, "db", "", "SQLite database path (overrides store.path)")
	root.PersistentFlags().StringVar(&e.level, "log-level", "", "Log level (overrides log.level)")

	root.AddCommand(
		RunCmd(e),
		AnalyzeCmd(e),
		PriorityCmd(),
		SeedDemoCmd(e),
		MetaCmd(e),
		ExtremityCmd(e),
	)

	return root
}
