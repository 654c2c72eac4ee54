package cli

import (
	"fmt"
	"strings"

	"datepick/internal/calendar"
	"datepick/internal/locale"
	"datepick/internal/store"

	"github.com/spf13/cobra"
)

type monthOut struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Days int    `json:"days"`
}

type monthsOut struct {
	Language locale.Language `json:"language"`
	Calendar string          `json:"calendar"`
	Year     int             `json:"year"`
	Months   []monthOut      `json:"months"`
}

func (m monthsOut) Text() string {
	var b strings.Builder
	for _, mo := range m.Months {
		fmt.Fprintf(&b, "%2d  %-12s %d\n", mo.ID, mo.Name, mo.Days)
	}
	return b.String()
}

func newMonthsCmd(app *App) *cobra.Command {
	var (
		lang string
		year int
		find string
	)

	cmd := &cobra.Command{
		Use:   "months",
		Short: "List month names and lengths for a language",
		Example: strings.TrimSpace(`
  datepick months --lang fa --year 1403
  datepick months --lang fa --find shah
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			langText := lang
			if strings.TrimSpace(langText) == "" {
				if cfg, err := store.LoadConfig(); err == nil {
					langText = cfg.Language
				}
			}
			l, err := locale.Parse(langText)
			if err != nil {
				return writeErr(cmd, err)
			}
			sys := l.System()
			if year == 0 {
				year = calendar.FromInstant(app.now(), sys).Year
			}
			if lo, hi := calendar.YearBounds(sys); year < lo || year > hi {
				return writeErr(cmd, fmt.Errorf("invalid --year %d: outside %d..%d", year, lo, hi))
			}

			table := locale.MonthNames(l)
			if strings.TrimSpace(find) != "" {
				table = locale.FindMonths(l, find)
			}

			out := monthsOut{Language: l, Calendar: sys.String(), Year: year, Months: make([]monthOut, 0, len(table))}
			for _, m := range table {
				out.Months = append(out.Months, monthOut{ID: m.ID, Name: m.Name, Days: calendar.MaxDay(m.ID, year, sys)})
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().StringVar(&lang, "lang", envOr("DATEPICK_LANG", ""), "Language (fa|en)")
	cmd.Flags().IntVar(&year, "year", 0, "Year in the language's calendar (default: current)")
	cmd.Flags().StringVar(&find, "find", "", "Fuzzy-match month names (latin transliterations work for fa)")

	return cmd
}
