package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/minilang/internal/cli/output"
)

// SourceExt is the file extension picked up when watching a directory.
const SourceExt = ".mini"

const watchDebounce = 100 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <path>",
		Short: "Re-analyze programs whenever they change",
		Long: `Watch a file, or every ` + SourceExt + ` file below a directory, and print a fresh
analysis each time one is written.`,
		Example: `  minilang watch hello.mini
  minilang watch ./examples`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			return watchPath(cmd.Context(), cc, args[0], nil)
		},
	}
}

// watchPath blocks until ctx is cancelled. ready, when non-nil, is closed
// once the watcher is registered.
func watchPath(ctx context.Context, cc *CommandContext, path string, ready chan<- struct{}) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	w := &sourceWatcher{cc: cc, timers: map[string]*time.Timer{}}
	if info.IsDir() {
		if err := watchDirRecursive(watcher, path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		w.match = func(name string) bool { return filepath.Ext(name) == SourceExt }
	} else {
		// editors often replace the file, so watch its directory
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		target := filepath.Clean(path)
		w.match = func(name string) bool { return filepath.Clean(name) == target }
		w.analyze(ctx, path)
	}
	cc.Logger.Info("watching", "path", path)
	if ready != nil {
		close(ready)
	}

	for {
		select {
		case <-ctx.Done():
			w.stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !w.match(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cc.Logger.Error("watcher error", "error", err)
		}
	}
}

type sourceWatcher struct {
	cc    *CommandContext
	match func(name string) bool

	mu     sync.Mutex
	timers map[string]*time.Timer
	render sync.Mutex
}

// schedule debounces bursts of events for name into one analysis.
func (w *sourceWatcher) schedule(ctx context.Context, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[name]; ok {
		t.Stop()
	}
	w.timers[name] = time.AfterFunc(watchDebounce, func() {
		w.analyze(ctx, name)
	})
}

func (w *sourceWatcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.timers {
		t.Stop()
	}
}

func (w *sourceWatcher) analyze(ctx context.Context, name string) {
	data, err := os.ReadFile(name)
	if err != nil {
		w.cc.Logger.Warn("failed to read changed file", "file", name, "error", err)
		return
	}
	w.cc.Logger.Debug("file changed, analyzing", "file", name)
	res := w.cc.Analyzer.Analyze(ctx, string(data), w.cc.Cfg.AutoCorrect)

	w.render.Lock()
	defer w.render.Unlock()
	if err := w.cc.Renderer.Results([]output.Report{output.NewReport(name, res)}); err != nil {
		w.cc.Logger.Error("failed to render analysis", "error", err)
	}
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
