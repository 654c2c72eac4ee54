package cli

import (
	"fmt"
	"strings"

	"datepick/internal/store"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type historyEntry struct {
	store.Selection
	Ago string `json:"ago"`
}

type historyOut struct {
	Selections []historyEntry `json:"selections"`
}

func (h historyOut) Text() string {
	var b strings.Builder
	for _, s := range h.Selections {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", s.Formatted, s.Kind, s.Ago)
	}
	return b.String()
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent selections (newest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return writeErr(cmd, fmt.Errorf("invalid --limit %d (must be >= 1)", limit))
			}
			st, err := stateStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			sels, err := st.RecentSelections(cmd.Context(), limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			now := app.now()
			out := historyOut{Selections: make([]historyEntry, 0, len(sels))}
			for _, s := range sels {
				out.Selections = append(out.Selections, historyEntry{
					Selection: s,
					Ago:       humanize.RelTime(s.CreatedAt, now, "ago", "from now"),
				})
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of selections")

	return cmd
}
