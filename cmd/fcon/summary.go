package main

import (
	"fmt"
	"io"

	"github.com/mithrandir/fcon/internal/fwiki"
	"github.com/mithrandir/fcon/internal/ui"
	"github.com/mithrandir/fcon/internal/workflow"
)

func printSummary(w io.Writer, s *workflow.Summary) {
	prefix := ""
	if s.DryRun {
		prefix = "[dry run] "
	}

	switch s.Direction {
	case workflow.ToAnki:
		fmt.Fprintf(w, "%s %sExported %d cards (%s)\n", ui.RenderPassIcon(), prefix, s.DeckRows, s.Direction)
		for _, p := range s.DeckPaths {
			fmt.Fprintf(w, "  %s %s\n", ui.RenderMuted("→"), p)
		}

	case workflow.ToFwiki:
		r := s.Reconcile
		fmt.Fprintf(w, "%s %sReconciled deck with wiki (%s)\n", ui.RenderPassIcon(), prefix, s.Direction)
		fmt.Fprintf(w, "  deck %d, wiki %d, in common %d\n", r.Exported, r.Existing, r.Intersection)
		fmt.Fprintf(w, "  updated %d, unchanged %d\n", r.Updated, r.Unchanged)
		for _, f := range r.Files {
			fmt.Fprintf(w, "  %s %s\n", ui.RenderAccent("✎"), f)
		}
		printIDList(w, ui.RenderWarnIcon(), "not in wiki", r.Missing)
		printIDList(w, ui.RenderFailIcon(), "too much markup", r.MarkupDense)
		printIDList(w, ui.RenderFailIcon(), "would not read back unchanged", r.Unsafe)
	}

	printDiagnostics(w, s.Diagnostics)
	if s.Indexed > 0 {
		fmt.Fprintf(w, "%s indexed %d cards\n", ui.RenderMuted("•"), s.Indexed)
	}
}

func printIDList(w io.Writer, icon, label string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(w, "%s %d %s:\n", icon, len(ids), label)
	for _, id := range ids {
		fmt.Fprintf(w, "    %s\n", ui.RenderID(id))
	}
}

// printDiagnostics lists rejected segments, most frequent first.
func printDiagnostics(w io.Writer, d *fwiki.Diagnostics) {
	if d.Total() == 0 {
		return
	}
	fmt.Fprintf(w, "%s %d segments rejected:\n", ui.RenderWarnIcon(), d.Total())
	for _, e := range d.Entries() {
		fmt.Fprintf(w, "    %4d  %-16s %s\n", e.Count, e.Reason, e.File)
	}
}
