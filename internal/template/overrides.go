package template

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	"github.com/fsnotify/fsnotify"
	"github.com/mark3labs/screencal/internal/logger"
)

// Diff returns a unified diff from the embedded default of a view to its
// override in dir. An empty string means the override matches the default.
func Diff(dir, name string) (string, error) {
	src, err := NewDirSource(dir)
	if err != nil {
		return "", err
	}

	def, err := EmbeddedSource{}.Fetch(context.Background(), name)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(src.Path(name))
	if err != nil {
		return "", fmt.Errorf("reading override for %s: %w", name, err)
	}

	file := FileName(name)
	return udiff.Unified("default/"+file, "override/"+file, def, string(data)), nil
}

// Watcher re-fetches views whose override files change on disk.
type Watcher struct {
	fw       *fsnotify.Watcher
	provider *Provider
	onChange func(View)
	done     chan struct{}
}

// Watch starts watching dir. onChange is called from the watcher goroutine
// after a changed view has been re-cached.
func Watch(dir string, p *Provider, onChange func(View)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		fw:       fw,
		provider: p,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	err := w.fw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name, ok := w.viewFor(filepath.Base(event.Name))
			if !ok {
				continue
			}
			logger.Debug("View override changed: %s", event.Name)
			w.provider.Refresh(name, w.onChange)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logger.Warn("Template watcher error: %v", err)
		}
	}
}

// viewFor maps an override file name back to a loaded view name.
func (w *Watcher) viewFor(file string) (string, bool) {
	if !strings.HasSuffix(file, ".md") {
		return "", false
	}
	for _, name := range w.provider.Names() {
		if FileName(name) == file {
			return name, true
		}
	}
	return "", false
}
