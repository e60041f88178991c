package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mithrandir/fcon/internal/ui"
	"github.com/mithrandir/fcon/internal/workflow"
)

// errAborted is returned when the user declines the reconcile prompt.
var errAborted = errors.New("aborted")

type syncFlags struct {
	direction string
	dryRun    bool
	yes       bool
}

func newSyncCmd(a *app) *cobra.Command {
	f := &syncFlags{}
	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "sync",
		Short:   "Run the configured sync direction",
		Long: `Run one sync pass in the configured direction.

  2anki   read every card in the wiki and write the deck import file(s)
  2fwiki  read the deck export and write changed cards back into the wiki

--direction overrides the configured direction for this run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, a, f)
		},
	}
	cmd.Flags().StringVar(&f.direction, "direction", "", "2anki or 2fwiki (default from config)")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "report what would change without writing")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "do not ask before rewriting wiki files")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	f := &syncFlags{direction: string(workflow.ToAnki)}
	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "sync",
		Short:   "Export wiki cards to the deck import file(s) (2anki)",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, a, f)
		},
	}
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "report what would be written without writing")
	return cmd
}

func newReconcileCmd(a *app) *cobra.Command {
	f := &syncFlags{direction: string(workflow.ToFwiki)}
	cmd := &cobra.Command{
		Use:     "reconcile",
		GroupID: "sync",
		Short:   "Write deck edits back into the wiki (2fwiki)",
		Long: `Read the deck export and rewrite, in place, every wiki card whose
question or answer changed in the deck. Cards that are unchanged, missing
from the wiki, or too heavily formatted are left alone and reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, a, f)
		},
	}
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "report what would change without writing")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "do not ask before rewriting wiki files")
	return cmd
}

func runSync(cmd *cobra.Command, a *app, f *syncFlags) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	logs := a.openLogs(cmd, cfg)
	defer logs.Close()

	wcfg, err := cfg.Workflow(f.direction, f.dryRun, logs)
	if err != nil {
		return err
	}
	wf, err := workflow.New(wcfg)
	if err != nil {
		return err
	}

	if wf.Direction() == workflow.ToFwiki && !f.dryRun && !f.yes && ui.IsInputTerminal() {
		if err := confirmReconcile(wcfg.DeckInput); err != nil {
			return err
		}
	}

	summary, err := wf.Run(cmd.Context())
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), summary)
	return nil
}

func confirmReconcile(deckPath string) error {
	proceed := false
	err := huh.NewConfirm().
		Title("Rewrite wiki files from " + deckPath + "?").
		Description("Changed cards are replaced in place. Use --dry-run to preview.").
		Affirmative("Rewrite").
		Negative("Cancel").
		Value(&proceed).
		Run()
	if err != nil {
		return fmt.Errorf("confirmation prompt failed: %w", err)
	}
	if !proceed {
		return errAborted
	}
	return nil
}
