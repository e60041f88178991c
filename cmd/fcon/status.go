package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrandir/fcon/internal/index"
	"github.com/mithrandir/fcon/internal/ui"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: "inspect",
		Short:   "Show wiki cards added, changed or removed since the last sync",
		Long: `Compare the wiki with the card snapshot recorded by the last successful
sync (index_path in the config). Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cfg.IndexPath == "" {
				return fmt.Errorf("index_path is not configured")
			}
			logs := a.openLogs(cmd, cfg)
			defer logs.Close()

			cards, _, err := newCorpusReader(cfg, logs.Logger("fwiki")).ReadCorpus(cmd.Context())
			if err != nil {
				return err
			}

			db, err := index.Open(cfg.IndexPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.InitSchema(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			run, err := db.LastRun(cmd.Context())
			switch {
			case errors.Is(err, index.ErrNoRuns):
				fmt.Fprintf(out, "%s no sync recorded yet\n", ui.RenderWarnIcon())
			case err != nil:
				return err
			default:
				fmt.Fprintf(out, "Last sync: %s (%s, %d cards)\n",
					run.RecordedAt.Local().Format("2006-01-02 15:04"), run.Direction, run.CardCount)
			}

			drift, err := db.Drift(cmd.Context(), cards)
			if err != nil {
				return err
			}
			if drift.Empty() {
				fmt.Fprintf(out, "%s %d cards, up to date\n", ui.RenderPassIcon(), cards.Len())
				return nil
			}
			fmt.Fprintf(out, "%d cards: %d new, %d changed, %d removed\n",
				cards.Len(), len(drift.New), len(drift.Changed), len(drift.Removed))
			printIDList(out, ui.RenderAccent("+"), "new", drift.New)
			printIDList(out, ui.RenderWarn("~"), "changed", drift.Changed)
			printIDList(out, ui.RenderFail("-"), "removed", drift.Removed)
			return nil
		},
	}
}
