package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"datepick/internal/format"
	"datepick/internal/store"
	"datepick/internal/tui"

	"cloudeng.io/logging"
	"cloudeng.io/logging/ctxlog"
	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
	LogFile    string
	LogLevel   string

	logCloser io.Closer

	// Test seams.
	now    func() time.Time
	runTUI func(ctx context.Context, opts tui.Options, values <-chan string) (tui.Result, error)
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	if app.now == nil {
		app.now = time.Now
	}
	if app.runTUI == nil {
		app.runTUI = tui.Run
	}

	pf := &pickFlags{}
	cmd := &cobra.Command{
		Use:          "datepick",
		Short:        "Jalaali/Gregorian date picker (TUI + scriptable commands)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Pick a Jalaali date interactively
  datepick --lang fa

  # Pick a range, printing the result as EDN
  datepick range --format edn

  # Convert between calendars
  datepick convert 1403/01/01 --from fa --to en
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => single-date picker.
			return runPick(cmd, app, pf)
		},
	}
	addPickFlags(cmd, pf)

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd, app)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.logCloser != nil {
			err := app.logCloser.Close()
			app.logCloser = nil
			return err
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("DATEPICK_DIR", ""), "State dir for history and view state (default: the config dir)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output and log records")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DATEPICK_FORMAT", "json"), "Output format (json|edn|text)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("DATEPICK_LOG_FILE", ""), "Log file (default: <dir>/datepick.log; 'off' disables, '-' is stderr)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("DATEPICK_LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newPickCmd(app))
	cmd.AddCommand(newRangeCmd(app))
	cmd.AddCommand(newConvertCmd(app))
	cmd.AddCommand(newMonthsCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// stateDir is where history and view state live: --dir, else the config dir.
func stateDir(app *App) (string, error) {
	if strings.TrimSpace(app.Dir) != "" {
		return app.Dir, nil
	}
	return store.DefaultDir()
}

func stateStore(app *App) (store.Store, error) {
	dir, err := stateDir(app)
	if err != nil {
		return store.Store{}, err
	}
	return store.Store{Dir: dir}, nil
}

func setupLogging(cmd *cobra.Command, app *App) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(app.LogLevel))); err != nil {
		return writeErr(cmd, fmt.Errorf("invalid --log-level %q: %w", app.LogLevel, err))
	}

	var w io.Writer
	switch path := strings.TrimSpace(app.LogFile); path {
	case "off":
		w = io.Discard
	case "-":
		w = cmd.ErrOrStderr()
	default:
		if path == "" {
			dir, err := stateDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			path = filepath.Join(dir, "datepick.log")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return writeErr(cmd, err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.logCloser = f
		w = f
	}
	if app.PrettyJSON {
		w = logging.NewJSONFormatter(w, "", "  ")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ctxlog.NewJSONLogger(ctx, w, &slog.HandlerOptions{Level: level})
	ctx = ctxlog.WithAttributes(ctx, "cmd", cmd.CommandPath())
	cmd.SetContext(ctx)
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut wraps v in a {"data": ...} envelope for json/edn; text renders v itself.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	if strings.EqualFold(strings.TrimSpace(app.Format), "text") {
		return format.WriteText(cmd.OutOrStdout(), v)
	}
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
