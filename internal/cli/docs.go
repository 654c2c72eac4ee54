package cli

import (
	"fmt"
	"os"

	"datepick/internal/docs"
	"datepick/internal/store"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show on-demand documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"topics": docs.Topics()})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, unknownTopicError{topic: topic})
			}

			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}

			// Straight to a terminal: render instead of wrapping in an envelope.
			if width, ok := terminalWidth(cmd); ok {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), docs.Render(body, width, docsStyle()))
				return err
			}

			return writeOut(cmd, app, map[string]any{"topic": topic, "markdown": body})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no JSON envelope)")

	return cmd
}

func terminalWidth(cmd *cobra.Command) (int, bool) {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0, false
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		w = 80
	}
	return w, true
}

func docsStyle() string {
	cfg, err := store.LoadConfig()
	if err == nil && cfg.Theme() == "light" {
		return "light"
	}
	return "dark"
}
