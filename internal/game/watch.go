package game

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// FileWatcher polls the YAML files under Root and calls onChange with the path
// of every file that was added, modified, or removed since the previous scan.
type FileWatcher struct {
	Root     string
	Interval time.Duration
	onChange func(string)
	mtimes   map[string]time.Time
	primed   bool
}

// NewFileWatcher creates a watcher for the config tree rooted at root.
func NewFileWatcher(root string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		Root:     root,
		Interval: interval,
		onChange: onChange,
		mtimes:   make(map[string]time.Time),
	}
}

// Run polls until ctx is done. Without an earlier Scan, the first scan only
// records modification times.
func (w *FileWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	if !w.primed {
		w.Scan(true)
	}
	for {
		select {
		case <-ticker.C:
			w.Scan(false)
		case <-ctx.Done():
			return
		}
	}
}

// Scan compares current mtimes with the previous scan. With prime set it only
// records them.
func (w *FileWatcher) Scan(prime bool) {
	seen := make(map[string]time.Time, len(w.mtimes))
	_ = filepath.WalkDir(w.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".yaml") {
			// unreadable entries are skipped; they show up as removed
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		seen[path] = info.ModTime()
		return nil
	})

	if !prime && w.onChange != nil {
		for path, mt := range seen {
			if last, ok := w.mtimes[path]; !ok || !mt.Equal(last) {
				w.onChange(path)
			}
		}
		for path := range w.mtimes {
			if _, ok := seen[path]; !ok {
				w.onChange(path)
			}
		}
	}
	w.mtimes = seen
	w.primed = true
}
