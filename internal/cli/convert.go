package cli

import (
	"strings"
	"time"

	"datepick/internal/calendar"
	"datepick/internal/locale"

	"github.com/spf13/cobra"
)

type convertOut struct {
	Input     string          `json:"input"`
	From      locale.Language `json:"from"`
	To        locale.Language `json:"to"`
	Instant   time.Time       `json:"instant"`
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Day       int             `json:"day"`
	MonthName string          `json:"monthName"`
	Weekday   string          `json:"weekday"`
	Formatted string          `json:"formatted"`
}

func (c convertOut) Text() string { return c.Formatted }

func newConvertCmd(app *App) *cobra.Command {
	var (
		from          string
		to            string
		mask          string
		toMask        string
		persianDigits bool
	)

	cmd := &cobra.Command{
		Use:   "convert <date>",
		Short: "Convert a date between the Jalaali and Gregorian calendars",
		Example: strings.TrimSpace(`
  datepick convert 1403/01/01 --from fa --to en
  datepick convert 2024-03-20 --from en --to fa --persian-digits
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromLang, err := locale.Parse(from)
			if err != nil {
				return writeErr(cmd, err)
			}
			toLang, err := locale.Parse(to)
			if err != nil {
				return writeErr(cmd, err)
			}

			src := strings.TrimSpace(mask)
			if src == "" {
				src = calendar.DefaultMask(fromLang.System())
			}
			srcMask, err := calendar.CompileMask(src)
			if err != nil {
				return writeErr(cmd, err)
			}
			dst := strings.TrimSpace(toMask)
			if dst == "" {
				dst = calendar.DefaultMask(toLang.System())
			}
			dstMask, err := calendar.CompileMask(dst)
			if err != nil {
				return writeErr(cmd, err)
			}

			t, ok := srcMask.Parse(args[0])
			if !ok {
				return writeErr(cmd, errDateArg("date", args[0], srcMask.String()))
			}

			sys := toLang.System()
			r := calendar.FromInstant(t, sys)
			if err := calendar.Validate(r, sys); err != nil {
				return writeErr(cmd, err)
			}
			out := convertOut{
				Input:     args[0],
				From:      fromLang,
				To:        toLang,
				Instant:   t,
				Year:      r.Year,
				Month:     r.Month,
				Day:       r.Day,
				MonthName: locale.MonthNames(toLang).Name(r.Month),
				Weekday:   t.Weekday().String(),
				Formatted: dstMask.Format(t),
			}
			if persianDigits {
				out.Formatted = calendar.ToPersianDigits(out.Formatted)
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().StringVar(&from, "from", "fa", "Source language (fa|en)")
	cmd.Flags().StringVar(&to, "to", "en", "Target language (fa|en)")
	cmd.Flags().StringVar(&mask, "mask", "", "Mask of the input (default: the source calendar's mask)")
	cmd.Flags().StringVar(&toMask, "to-mask", "", "Mask of the output (default: the target calendar's mask)")
	cmd.Flags().BoolVar(&persianDigits, "persian-digits", false, "Render the output with Persian numerals")

	return cmd
}
