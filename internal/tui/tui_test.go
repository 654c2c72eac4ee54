package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestForwardValues(t *testing.T) {
	values := make(chan string, 2)
	done := make(chan struct{})
	sent := make(chan tea.Msg, 2)
	exited := make(chan struct{})

	go func() {
		forwardValues(context.Background(), done, values, func(msg tea.Msg) { sent <- msg })
		close(exited)
	}()

	values <- "1403/01/01"
	select {
	case msg := <-sent:
		if ev, ok := msg.(ExternalValueMsg); !ok || ev.Text != "1403/01/01" {
			t.Fatalf("sent %#v", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("value was not forwarded")
	}

	// values stays open; closing done alone must stop the forwarder.
	close(done)
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatalf("forwarder outlived the session")
	}
}

func TestForwardValues_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	exited := make(chan struct{})
	go func() {
		forwardValues(ctx, make(chan struct{}), make(chan string), func(tea.Msg) {})
		close(exited)
	}()
	cancel()
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatalf("forwarder ignored cancellation")
	}
}
