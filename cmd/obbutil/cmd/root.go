/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/andeb/obbutil/pkg/config"
	"github.com/andeb/obbutil/pkg/di"
	"github.com/andeb/obbutil/pkg/journal"
	"github.com/andeb/obbutil/pkg/metrics"
	"github.com/andeb/obbutil/pkg/obbinfo"
)

var container *di.Container

// SetContainer injects the dependency container used by every command
func SetContainer(c *di.Container) {
	container = c
}

// app carries the state shared by the commands of one invocation
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	metrics *metrics.Metrics
}

type rootOptions struct {
	configPath string
	verbose    bool
	json       bool
}

func init() {
	// Lets "a", "r" and "i" stand for add, remove and info.
	cobra.EnablePrefixMatching = true
}

// newRootCmd builds the command tree. Each call returns independent flag state.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "obbutil",
		Short: "Opaque Binary Blob (OBB) Utility",
		Long: `obbutil adds, removes and shows the OBB info footer stored at the end of
an expansion data file. The footer records the owning package name, its
version and the overlay and salted flags.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $HOME/.config/obbutil/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "log in JSON format")

	rootCmd.AddCommand(newAddCmd(a))
	rootCmd.AddCommand(newRemoveCmd(a))
	rootCmd.AddCommand(newInfoCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := newRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, opts *rootOptions) error {
	if container == nil {
		return fmt.Errorf("dependency container not initialized")
	}

	configPath := opts.configPath
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = newLogger(cmd.ErrOrStderr(), cfg, opts)
	a.metrics = container.GetMetricsFactory()()

	a.log.WithField("config", configPath).Debug("configuration loaded")
	return nil
}

func newLogger(out io.Writer, cfg *config.Config, opts *rootOptions) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	// Validated when the config was loaded.
	level, _ := cfg.LogLevel()
	if opts.verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)

	if opts.json || cfg.Logging.Format == config.FormatJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return log
}

// track records the outcome of a footer command and flushes metrics.
func (a *app) track(command string, fn func() (footerSize int, err error)) error {
	start := time.Now()
	size, err := fn()

	var notObb *obbinfo.NotObbError
	a.metrics.RecordOperation(command, time.Since(start), err, errors.As(err, &notObb))
	if err == nil && size > 0 {
		a.metrics.SetFooterBytes(size)
	}

	if path := a.cfg.Metrics.Textfile; path != "" {
		if werr := a.metrics.WriteTextfile(path); werr != nil {
			a.log.WithError(werr).WithField("path", path).Warn("failed to write metrics textfile")
		}
	}
	return err
}

// journalOp records a successful operation when the journal is enabled.
// Journal failures are logged and do not fail the command, since the file
// has already been modified.
func (a *app) journalOp(op journal.Op, path string, info obbinfo.Info) {
	if !a.cfg.Journal.Enabled {
		return
	}

	j, err := container.GetJournalFactory()(a.cfg.Journal.Dir, a.log)
	if err != nil {
		a.log.WithError(err).Warn("failed to open journal")
		return
	}
	defer func() {
		if err := j.Close(); err != nil {
			a.log.WithError(err).Warn("failed to close journal")
		}
	}()

	entry, err := journal.NewEntry(op, path, info)
	if err != nil {
		a.log.WithError(err).Warn("failed to build journal entry")
		return
	}
	if _, err := j.Record(entry); err != nil {
		a.log.WithError(err).Warn("failed to record journal entry")
	}
}

// describeError adds the target path to errors surfaced to the user.
func describeError(path string, err error) error {
	var notObb *obbinfo.NotObbError
	var ioErr *obbinfo.IOError
	switch {
	case errors.As(err, &notObb):
		return fmt.Errorf("%s does not contain OBB info: %w", path, err)
	case errors.As(err, &ioErr):
		return fmt.Errorf("failed to access %s: %w", path, err)
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return fmt.Errorf("cannot open %s: %w", path, err)
	default:
		return fmt.Errorf("%s: %w", path, err)
	}
}
