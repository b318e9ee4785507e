// Package monitoring watches plan files so a changed timeline is re-derived
// wholesale instead of patched incrementally.
package monitoring

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/cargoreplay/cargoreplay/internal/core/model"
	"github.com/cargoreplay/cargoreplay/internal/util"
)

type FileWatcher struct {
	watcher *fsnotify.Watcher
	watched map[string]bool
	events  chan model.FileEvent
}

// NewFileWatcher watches the given files for writes. The parent directories
// are registered so editors that replace files atomically are still seen.
func NewFileWatcher(paths []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		watched: make(map[string]bool, len(paths)),
		events:  make(chan model.FileEvent, 16),
	}

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		fw.watched[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) processEvents() {
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !fw.watched[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				fw.events <- model.FileEvent{
					Path:      abs,
					Operation: event.Op.String(),
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("Plan file monitoring error: " + err.Error())
		}
	}
}

func (fw *FileWatcher) Events() <-chan model.FileEvent {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
