package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"jvmlower/internal/driver"
	"jvmlower/internal/ui"
)

// runLowerWithUI lowers req on a background goroutine while the progress
// view renders its events. Quitting the view cancels the remaining units.
func runLowerWithUI(ctx context.Context, title string, files []string, req *driver.Request) ([]driver.Result, error) {
	if req == nil {
		return nil, fmt.Errorf("missing lower request")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	type outcome struct {
		results []driver.Result
		err     error
	}
	done := make(chan outcome, 1)
	withSink := *req
	withSink.Progress = driver.ChannelSink{Ch: events}
	go func() {
		res, err := driver.LowerUnits(ctx, &withSink)
		close(events)
		done <- outcome{res, err}
	}()

	_, uiErr := tea.NewProgram(ui.NewProgressModel(title, files, events), tea.WithOutput(os.Stdout)).Run()
	cancel()
	// workers may still be sending after an early quit
	for range events {
	}
	out := <-done
	if uiErr != nil {
		return out.results, uiErr
	}
	return out.results, out.err
}
