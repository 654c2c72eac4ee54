package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts an interactive session and blocks until it ends. values, when
// non-nil, feeds externally owned values (e.g. from a bound file) into the
// session while it runs.
func Run(ctx context.Context, opts Options, values <-chan string) (Result, error) {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	m, err := New(opts)
	if err != nil {
		return Result{}, err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	done := make(chan struct{})
	if values != nil {
		go forwardValues(ctx, done, values, p.Send)
	}

	final, err := p.Run()
	close(done)
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return Result{}, err
	}
	fm, ok := final.(Model)
	if !ok {
		return m.Result(), nil
	}
	return fm.Result(), nil
}

// forwardValues sends each value as an ExternalValueMsg until values closes, ctx
// is cancelled or done closes.
func forwardValues(ctx context.Context, done <-chan struct{}, values <-chan string, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case v, ok := <-values:
			if !ok {
				return
			}
			send(ExternalValueMsg{Text: v})
		}
	}
}
