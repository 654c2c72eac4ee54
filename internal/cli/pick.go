package cli

import (
	"context"
	"strings"
	"time"

	"datepick/internal/picker"
	"datepick/internal/store"
	"datepick/internal/tui"
	"datepick/internal/watch"

	"cloudeng.io/logging/ctxlog"
	"github.com/spf13/cobra"
)

type pickFlags struct {
	lang          string
	mask          string
	persianDigits bool
	value         string
	def           string
	bind          string
}

func addPickFlags(cmd *cobra.Command, f *pickFlags) {
	cmd.Flags().StringVar(&f.lang, "lang", envOr("DATEPICK_LANG", ""), "Language (fa|en); fa picks Jalaali dates")
	cmd.Flags().StringVar(&f.mask, "mask", "", "Format mask, e.g. jYYYY/jMM/jDD or YYYY-MM-DD")
	cmd.Flags().BoolVar(&f.persianDigits, "persian-digits", false, "Render values with Persian numerals")
	cmd.Flags().StringVar(&f.value, "value", "", "Initial value (selected)")
	cmd.Flags().StringVar(&f.def, "default", "", "Initial position only (nothing selected)")
	cmd.Flags().StringVar(&f.bind, "bind", "", "File holding an externally owned value; changes are followed live")
	cmd.MarkFlagsMutuallyExclusive("value", "default")
}

// selectionOut is the printed result of pick and range.
type selectionOut struct {
	Kind     string     `json:"kind"`
	Calendar string     `json:"calendar"`
	Selected bool       `json:"selected"`
	Value    string     `json:"value,omitempty"`
	Start    *time.Time `json:"start,omitempty"`
	End      *time.Time `json:"end,omitempty"`
	ID       string     `json:"historyId,omitempty"`
}

func (s selectionOut) Text() string { return s.Value }

func newPickCmd(app *App) *cobra.Command {
	f := &pickFlags{}
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick a single date (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPick(cmd, app, f)
		},
	}
	addPickFlags(cmd, f)
	return cmd
}

func runPick(cmd *cobra.Command, app *App, f *pickFlags) error {
	ctx := cmd.Context()
	log := ctxlog.Logger(ctx)

	s, err := resolveSettings(app, f.lang, f.mask, f.persianDigits)
	if err != nil {
		return writeErr(cmd, err)
	}
	sys := s.lang.System()

	value, err := parseDateArg("--value", f.value, s.mask)
	if err != nil {
		return writeErr(cmd, err)
	}
	def, err := parseDateArg("--default", f.def, s.mask)
	if err != nil {
		return writeErr(cmd, err)
	}

	st, err := stateStore(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	vs, _ := st.LoadViewState()
	if value.IsZero() && def.IsZero() {
		def = rememberedStart(vs, tui.CursorSingle, sys)
	}

	var values chan string
	if path := strings.TrimSpace(f.bind); path != "" {
		initial, err := store.ReadValueFile(path)
		if err != nil {
			return writeErr(cmd, err)
		}
		if t, ok := s.mask.Parse(initial); ok && value.IsZero() {
			value = t
		} else if initial != "" && value.IsZero() {
			log.Warn("bound value does not match mask", "path", path, "value", initial, "mask", s.mask.String())
		}

		values = make(chan string, 16)
		w, err := watch.New(watch.Options{
			Path: path,
			OnValue: func(v string) {
				select {
				case values <- v:
				default:
					log.Warn("dropping bound value; picker is busy", "value", v)
				}
			},
		})
		if err != nil {
			return writeErr(cmd, err)
		}
		if err := w.Start(ctx); err != nil {
			return writeErr(cmd, err)
		}
		defer w.Stop()
	}

	opts := tui.Options{
		Language:      s.lang,
		Mask:          s.mask.String(),
		PersianDigits: s.persian,
		Disabled:      s.disabled,
		Theme:         s.cfg.Theme(),
		Value:         value,
		Default:       def,
		Now:           app.now,
		Notify:        notifier(ctx),
	}
	res, err := app.runTUI(ctx, opts, values)
	if err != nil {
		return writeErr(cmd, err)
	}
	return finishSession(cmd, app, st, vs, s, res)
}

func newRangeCmd(app *App) *cobra.Command {
	var (
		lang          string
		mask          string
		persianDigits bool
		start         string
		end           string
	)
	cmd := &cobra.Command{
		Use:   "range",
		Short: "Pick a start and end date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := resolveSettings(app, lang, mask, persianDigits)
			if err != nil {
				return writeErr(cmd, err)
			}
			sys := s.lang.System()

			startAt, err := parseDateArg("--start", start, s.mask)
			if err != nil {
				return writeErr(cmd, err)
			}
			endAt, err := parseDateArg("--end", end, s.mask)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !startAt.IsZero() && !endAt.IsZero() && endAt.Before(startAt) {
				return writeErr(cmd, &picker.RejectionError{Cursor: "end", Reason: picker.ReasonOutOfOrder, Date: s.mask.Format(endAt)})
			}

			st, err := stateStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			vs, _ := st.LoadViewState()

			opts := tui.Options{
				Language:      s.lang,
				Mask:          s.mask.String(),
				PersianDigits: s.persian,
				Disabled:      s.disabled,
				Theme:         s.cfg.Theme(),
				Range:         true,
				StartValue:    startAt,
				EndValue:      endAt,
				Now:           app.now,
				Notify:        notifier(ctx),
			}
			if startAt.IsZero() {
				opts.StartDefault = rememberedStart(vs, tui.CursorStart, sys)
			}
			if endAt.IsZero() {
				opts.EndDefault = rememberedStart(vs, tui.CursorEnd, sys)
			}

			res, err := app.runTUI(ctx, opts, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			return finishSession(cmd, app, st, vs, s, res)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", envOr("DATEPICK_LANG", ""), "Language (fa|en); fa picks Jalaali dates")
	cmd.Flags().StringVar(&mask, "mask", "", "Format mask, e.g. jYYYY/jMM/jDD or YYYY-MM-DD")
	cmd.Flags().BoolVar(&persianDigits, "persian-digits", false, "Render values with Persian numerals")
	cmd.Flags().StringVar(&start, "start", "", "Initial start value")
	cmd.Flags().StringVar(&end, "end", "", "Initial end value")
	return cmd
}

func notifier(ctx context.Context) func(tui.Event) {
	log := ctxlog.Logger(ctx)
	return func(e tui.Event) {
		if e.Kind == "error" {
			log.Warn("picker refused action", "reason", e.Value)
			return
		}
		log.Debug("picker notification", "kind", e.Kind, "value", e.Value)
	}
}

// finishSession persists the view state, records history and prints the result.
func finishSession(cmd *cobra.Command, app *App, st store.Store, vs *store.ViewState, s settings, res tui.Result) error {
	ctx := cmd.Context()
	log := ctxlog.Logger(ctx)

	if vs == nil {
		vs = &store.ViewState{Version: 1}
	}
	for cursor, p := range res.Positions {
		vs.Remember(cursor, p)
	}
	if err := st.SaveViewState(vs); err != nil {
		log.Warn("saving view state", "err", err)
	}

	if res.Cancelled {
		return writeErr(cmd, cancelledError{})
	}

	out := selectionOut{Kind: res.Kind, Calendar: res.Calendar.String(), Selected: res.Selected}
	if !res.Selected {
		return writeOut(cmd, app, out)
	}
	start := res.Start
	out.Value, out.Start, out.End = res.Formatted, &start, res.End

	if s.cfg.HistoryEnabled() {
		sel, err := st.AppendSelection(ctx, store.Selection{
			Kind:      res.Kind,
			Calendar:  res.Calendar.String(),
			Start:     res.Start,
			End:       res.End,
			Formatted: res.Formatted,
		})
		if err != nil {
			log.Warn("recording selection", "err", err)
		} else {
			out.ID = sel.ID
			log.Info("selection recorded", "id", sel.ID, "kind", sel.Kind, "value", sel.Formatted)
		}
	}
	return writeOut(cmd, app, out)
}
