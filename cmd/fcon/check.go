package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mithrandir/fcon/internal/config"
	"github.com/mithrandir/fcon/internal/fwiki"
	"github.com/mithrandir/fcon/internal/ui"
	"github.com/mithrandir/fcon/internal/watch"
)

func newCheckCmd(a *app) *cobra.Command {
	var watchMode bool
	cmd := &cobra.Command{
		Use:     "check",
		GroupID: "inspect",
		Short:   "Read the wiki and report cards and rejected segments",
		Long: `Read every configured wiki root and report how many cards were found
and which segments looked like cards but were rejected (no identifier,
empty or #todo answer, excluded tag). Nothing is written.

With --watch, the check re-runs whenever a markdown file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			logs := a.openLogs(cmd, cfg)
			defer logs.Close()

			reader := newCorpusReader(cfg, logs.Logger("fwiki"))
			out := cmd.OutOrStdout()
			if !watchMode {
				return runCheck(cmd.Context(), out, reader)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchCheck(ctx, out, cfg, reader, logs.Logger("watch"))
		},
	}
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "re-run on every markdown change")
	return cmd
}

func newCorpusReader(cfg *config.Config, logger *log.Logger) *fwiki.Reader {
	return fwiki.NewReader(fwiki.Options{
		Roots:       cfg.FwikiPaths,
		SkipTags:    cfg.SkipTags,
		FileSkipTag: cfg.FileSkipTag,
		ExcludeDirs: cfg.ExcludeDirs,
		Logger:      logger,
	})
}

func runCheck(ctx context.Context, out io.Writer, reader *fwiki.Reader) error {
	cards, diag, err := reader.ReadCorpus(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %d cards\n", ui.RenderPassIcon(), cards.Len())
	printDiagnostics(out, diag)
	return nil
}

func watchCheck(ctx context.Context, out io.Writer, cfg *config.Config, reader *fwiki.Reader, logger *log.Logger) error {
	if err := runCheck(ctx, out, reader); err != nil {
		// Keep watching: the next save may fix it.
		fmt.Fprintf(out, "%s %v\n", ui.RenderFailIcon(), err)
	}

	w, err := watch.New(watch.Options{
		Roots:       cfg.FwikiPaths,
		ExcludeDirs: cfg.ExcludeDirs,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintf(out, "%s watching %d roots, Ctrl-C to stop\n", ui.RenderMuted("•"), len(cfg.FwikiPaths))
	return w.Run(ctx, func(events []watch.FileEvent) {
		for _, e := range events {
			fmt.Fprintf(out, "%s %s %s\n", ui.RenderMuted("•"), e.Op, e.Path)
		}
		if err := runCheck(ctx, out, reader); err != nil {
			fmt.Fprintf(out, "%s %v\n", ui.RenderFailIcon(), err)
		}
	})
}
