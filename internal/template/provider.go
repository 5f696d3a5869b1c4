package template

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/screencal/internal/logger"
)

// Target receives rendered content from RenderInto.
type Target interface {
	Append(content string)
}

// Provider caches views fetched from a Source.
//
// Fetches run on their own goroutines and are never abandoned once issued.
// A request for a view that is not cached yet starts a new fetch even when
// one for the same name is already in flight.
type Provider struct {
	source Source

	mu        sync.Mutex
	cache     map[string]View
	required  []string
	onLoad    func()
	loadFired bool
}

// NewProvider creates a provider backed by src.
func NewProvider(src Source) (*Provider, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	return &Provider{
		source: src,
		cache:  make(map[string]View),
	}, nil
}

// Load fetches every named view concurrently. onComplete runs once, on the
// goroutine that stores the last missing view, after all names are cached.
// Cancelling ctx does not abandon fetches that were already issued.
func (p *Provider) Load(ctx context.Context, names []string, onComplete func()) {
	ctx = context.WithoutCancel(ctx)

	p.mu.Lock()
	p.required = append([]string(nil), names...)
	p.onLoad = onComplete
	p.loadFired = false
	fire := p.completion()
	p.mu.Unlock()

	logger.Debug("Loading %d views", len(names))
	if fire != nil {
		fire()
		return
	}

	for _, name := range names {
		go p.fetch(ctx, name, nil)
	}
}

// Loaded reports whether every view passed to Load is cached.
func (p *Provider) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allCached()
}

// Lookup returns the cached, unrendered view.
func (p *Provider) Lookup(name string) (View, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.cache[name]
	return v, ok
}

// RenderView returns the rendered view when it is cached. Otherwise it starts
// an asynchronous fetch-then-store and returns false; the caller retries on
// its next render.
func (p *Provider) RenderView(name string, vars Variables) (View, bool) {
	if v, ok := p.Lookup(name); ok {
		return v.Apply(vars), true
	}
	go p.fetch(context.Background(), name, nil)
	return View{}, false
}

// Render is RenderView for the body only.
func (p *Provider) Render(name string, vars Variables) (string, bool) {
	v, ok := p.RenderView(name, vars)
	return v.Body, ok
}

// RenderInto appends the rendered body to target. When the view is not cached
// the append happens later, from the fetch goroutine, and false is returned.
func (p *Provider) RenderInto(name string, vars Variables, target Target) bool {
	if v, ok := p.Lookup(name); ok {
		target.Append(v.Apply(vars).Body)
		return true
	}
	go p.fetch(context.Background(), name, func(v View) {
		target.Append(v.Apply(vars).Body)
	})
	return false
}

// RenderSync blocks the calling goroutine until the view is fetched and
// cached. It is meant for start-up and ad hoc prefetching, never for the UI
// update loop.
func (p *Provider) RenderSync(ctx context.Context, name string, vars Variables) (View, error) {
	if v, ok := p.Lookup(name); ok {
		return v.Apply(vars), nil
	}

	raw, err := p.source.Fetch(ctx, name)
	if err != nil {
		return View{}, fmt.Errorf("fetching view %s: %w", name, err)
	}
	v, err := Parse(name, raw)
	if err != nil {
		return View{}, err
	}
	p.store(v)
	return v.Apply(vars), nil
}

// Refresh re-fetches a view and calls then with the new version.
func (p *Provider) Refresh(name string, then func(View)) {
	go p.fetch(context.Background(), name, then)
}

// Invalidate drops a view from the cache.
func (p *Provider) Invalidate(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cache, name)
}

// Names returns the view names passed to the last Load.
func (p *Provider) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.required...)
}

func (p *Provider) fetch(ctx context.Context, name string, then func(View)) {
	raw, err := p.source.Fetch(ctx, name)
	if err != nil {
		logger.Error("Failed to fetch view %s: %v", name, err)
		return
	}
	v, err := Parse(name, raw)
	if err != nil {
		logger.Error("Failed to parse view %s: %v", name, err)
		return
	}
	p.store(v)
	logger.Debug("View %s cached", name)
	if then != nil {
		then(v)
	}
}

func (p *Provider) store(v View) {
	p.mu.Lock()
	p.cache[v.Name] = v
	fire := p.completion()
	p.mu.Unlock()

	if fire != nil {
		fire()
	}
}

// completion returns the load callback if it is due. Caller holds p.mu.
func (p *Provider) completion() func() {
	if p.onLoad == nil || p.loadFired || !p.allCached() {
		return nil
	}
	p.loadFired = true
	return p.onLoad
}

// allCached reports whether every required view is cached. Caller holds p.mu.
func (p *Provider) allCached() bool {
	for _, name := range p.required {
		if _, ok := p.cache[name]; !ok {
			return false
		}
	}
	return true
}
