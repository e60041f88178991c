// Command fcon keeps flashcards written in a markdown wiki in sync with a
// flashcard deck.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mithrandir/fcon/internal/config"
	"github.com/mithrandir/fcon/internal/debug"
	"github.com/mithrandir/fcon/internal/runlog"
)

// app holds the global flags shared by every subcommand.
type app struct {
	configPath string
	dir        string
	quiet      bool
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds a fresh command tree. Each call is independent so the
// tree can be executed more than once in one process.
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "fcon",
		Short: "Sync flashcards between a markdown wiki and a flashcard deck",
		Long: `fcon finds question/answer cards embedded in markdown files and exports
them as a deck import file (2anki), or writes edits made in the deck back
into the markdown files they came from (2fwiki).

A card is a segment between "---" lines that starts with "q:" and carries an
identifier such as /2022 Dec 21, 22:44 4158/.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.dir != "" {
				if err := os.Chdir(a.dir); err != nil {
					return fmt.Errorf("failed to change directory: %w", err)
				}
			}
			if a.verbose {
				debug.SetEnabled(true)
			}
			debug.SetQuiet(a.quiet)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default $FCON_CONFIG or ./fcon.yaml)")
	root.PersistentFlags().StringVarP(&a.dir, "dir", "C", "", "run as if started in this directory")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress progress logging")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug output")

	root.AddGroup(
		&cobra.Group{ID: "sync", Title: "Sync Commands:"},
		&cobra.Group{ID: "inspect", Title: "Inspection Commands:"},
		&cobra.Group{ID: "setup", Title: "Setup Commands:"},
	)

	root.AddCommand(
		newSyncCmd(a),
		newExportCmd(a),
		newReconcileCmd(a),
		newCheckCmd(a),
		newStatusCmd(a),
		newIDCmd(),
		newConfigCmd(a),
	)
	return root
}

func (a *app) loadConfig() (*config.Config, error) {
	return config.Load(a.configPath)
}

// openLogs creates the log sink for cmd. Close it when the command ends.
func (a *app) openLogs(cmd *cobra.Command, cfg *config.Config) *runlog.Sink {
	opts := cfg.RunlogOptions(a.quiet)
	opts.Console = cmd.ErrOrStderr()
	return runlog.Open(opts)
}
