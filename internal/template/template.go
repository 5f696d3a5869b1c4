// Package template loads, caches and renders the named views shown by the
// calibration wizard.
//
// Views are markdown documents with a small YAML front matter block carrying
// the view title. Placeholders of the form {{name}} are substituted at render
// time from a Variables map.
package template

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownView is returned by a source that has no view with the requested name.
	ErrUnknownView = errors.New("unknown view")
	// ErrNoBasePath is returned when a directory source is built without a base path.
	ErrNoBasePath = errors.New("template base path not set")
	// ErrNoSource is returned when a provider is built without a source.
	ErrNoSource = errors.New("template source is required")
)

// Variables holds the values injected into {{name}} placeholders.
type Variables map[string]string

// View is a parsed view: its name, title line and markdown body.
type View struct {
	Name  string
	Title string
	Body  string
}

type frontMatter struct {
	Title string `yaml:"title"`
}

const frontMatterDelim = "---"

// Parse splits raw view text into front matter and body.
// Text without front matter becomes an untitled view.
func Parse(name, raw string) (View, error) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	view := View{Name: name, Body: raw}

	if !strings.HasPrefix(raw, frontMatterDelim+"\n") {
		return view, nil
	}

	rest := raw[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim)
	if end < 0 {
		return View{}, fmt.Errorf("view %s: unterminated front matter", name)
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return View{}, fmt.Errorf("view %s: parsing front matter: %w", name, err)
	}

	body := rest[end+1+len(frontMatterDelim):]
	view.Title = fm.Title
	view.Body = strings.TrimLeft(body, "\n")
	return view, nil
}

// Render replaces {{name}} placeholders in text with values from vars.
// Placeholders without a value are left untouched.
func Render(text string, vars Variables) string {
	if len(vars) == 0 {
		return text
	}

	// Sorted so replacement order is deterministic
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names)*2)
	for _, name := range names {
		pairs = append(pairs, "{{"+name+"}}", vars[name])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// Apply renders both the title and the body of a view.
func (v View) Apply(vars Variables) View {
	return View{
		Name:  v.Name,
		Title: Render(v.Title, vars),
		Body:  Render(v.Body, vars),
	}
}
