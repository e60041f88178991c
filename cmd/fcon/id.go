package main

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/mithrandir/fcon/internal/fwiki"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

func newIDCmd() *cobra.Command {
	var (
		at     string
		suffix int
	)
	cmd := &cobra.Command{
		Use:     "id",
		GroupID: "setup",
		Short:   "Print a new card identifier",
		Long: `Print a card identifier for the current minute, e.g.

  /2022 Dec 21, 22:44 4158/

--at accepts a timestamp ("2022-12-21 22:44") or a phrase such as
"yesterday at 9am". The four-digit suffix is random unless --suffix is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := time.Now()
			if at != "" {
				parsed, err := parseAt(at, t)
				if err != nil {
					return err
				}
				t = parsed
			}
			if !cmd.Flags().Changed("suffix") {
				suffix = rand.IntN(10000)
			}
			if suffix < 0 || suffix > 9999 {
				return fmt.Errorf("--suffix must be between 0 and 9999, got %d", suffix)
			}
			fmt.Fprintln(cmd.OutOrStdout(), fwiki.NewIdentifier(t, suffix))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "time for the identifier (timestamp or natural language)")
	cmd.Flags().IntVar(&suffix, "suffix", 0, "four-digit suffix (default random)")
	return cmd
}

// parseAt reads s as a timestamp, falling back to natural language relative
// to base.
func parseAt(s string, base time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, base.Location()); err == nil {
			return t, nil
		}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	r, err := w.Parse(s, base)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse time %q: %w", s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("failed to parse time %q", s)
	}
	return r.Time, nil
}
