package template

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gosimple/slug"
)

//go:embed views/*.md
var defaultViews embed.FS

const viewsDir = "views"

// Source fetches the raw text of a named view.
type Source interface {
	Fetch(ctx context.Context, name string) (string, error)
}

// FileName returns the file a view is stored in, e.g. "enter-object-size.md".
func FileName(name string) string {
	return slug.Make(name) + ".md"
}

// EmbeddedSource serves the default views compiled into the binary.
type EmbeddedSource struct{}

// Fetch implements Source.
func (EmbeddedSource) Fetch(_ context.Context, name string) (string, error) {
	data, err := defaultViews.ReadFile(path.Join(viewsDir, FileName(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrUnknownView, name)
		}
		return "", err
	}
	return string(data), nil
}

// EmbeddedNames lists the names of all default views.
func EmbeddedNames() []string {
	entries, err := defaultViews.ReadDir(viewsDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".md"))
	}
	sort.Strings(names)
	return names
}

// DirSource reads views from a base directory so deployments can override
// the wording of individual steps. Missing files fall back to Fallback.
type DirSource struct {
	BasePath string
	Fallback Source
}

// NewDirSource creates a directory source backed by the embedded defaults.
func NewDirSource(basePath string) (*DirSource, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, ErrNoBasePath
	}
	return &DirSource{BasePath: basePath, Fallback: EmbeddedSource{}}, nil
}

// Path returns the override file path for a view.
func (d *DirSource) Path(name string) string {
	return filepath.Join(d.BasePath, FileName(name))
}

// Fetch implements Source.
func (d *DirSource) Fetch(ctx context.Context, name string) (string, error) {
	data, err := os.ReadFile(d.Path(name))
	if err == nil {
		return string(data), nil
	}
	if errors.Is(err, fs.ErrNotExist) && d.Fallback != nil {
		return d.Fallback.Fetch(ctx, name)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrUnknownView, name)
	}
	return "", fmt.Errorf("reading view %s: %w", name, err)
}

// WriteDefaults copies every embedded view into dir. Existing files are kept
// unless force is set. Returns the paths written.
func WriteDefaults(dir string, force bool) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrNoBasePath
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating templates directory: %w", err)
	}

	var written []string
	for _, name := range EmbeddedNames() {
		target := filepath.Join(dir, FileName(name))
		if !force {
			if _, err := os.Stat(target); err == nil {
				continue
			}
		}
		raw, err := EmbeddedSource{}.Fetch(context.Background(), name)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(target, []byte(raw), 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", target, err)
		}
		written = append(written, target)
	}
	return written, nil
}
