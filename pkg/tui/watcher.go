package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// Sender delivers messages into a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

const watchDebounce = 200 * time.Millisecond

// StartWatcher watches the progress directory and sends ProgressChangedMsg
// whenever a progress file is written, renamed into place or removed.
// Another process toggling a reading shows up here.
func StartWatcher(dir string, program Sender) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	done := make(chan struct{})

	go func() {
		var debounceTimer *time.Timer

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// Only care about .md files; temp files start with a dot
				base := event.Name[strings.LastIndexAny(event.Name, `/\`)+1:]
				if !strings.HasSuffix(base, ".md") || strings.HasPrefix(base, ".") {
					continue
				}

				// Debounce: wait after the last change
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(watchDebounce, func() {
					program.Send(ProgressChangedMsg{})
				})

			case <-watcher.Errors:
				// The poll fallback covers anything the watcher drops.

			case <-done:
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				return
			}
		}
	}()

	cleanup := func() {
		close(done)
		watcher.Close()
	}

	return cleanup, nil
}
