// Package testfixtures provides mock implementations and test utilities for TUI testing.
//
// This file contains mocks for the wizard's collaborators:
//   - MockTemplates: template provider whose views can be held back to simulate slow loads
//   - MockSink: completion callback that records every result it receives
//
// All mocks are thread-safe and provide verification methods for assertions in tests.
//
// Example usage:
//
//	func TestMyComponent(t *testing.T) {
//	    tmpl := testfixtures.NewMockTemplates()
//	    tmpl.Hold("summary")
//
//	    sink := testfixtures.NewMockSink()
//	    // Use mocks in your test...
//	    require.Equal(t, 1, sink.Count())
//	}
package testfixtures

import (
	"context"
	"sync"

	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/template"
)

// MockTemplates serves the embedded default views. Held views report as not
// cached until released.
type MockTemplates struct {
	mu    sync.Mutex
	held  map[string]bool
	calls map[string]int
}

// NewMockTemplates creates a mock with every view available.
func NewMockTemplates() *MockTemplates {
	return &MockTemplates{
		held:  make(map[string]bool),
		calls: make(map[string]int),
	}
}

// RenderView implements calibration.Templates.
func (m *MockTemplates) RenderView(name string, vars template.Variables) (template.View, bool) {
	m.mu.Lock()
	m.calls[name]++
	held := m.held[name]
	m.mu.Unlock()

	if held {
		return template.View{}, false
	}
	raw, err := template.EmbeddedSource{}.Fetch(context.Background(), name)
	if err != nil {
		return template.View{}, false
	}
	v, err := template.Parse(name, raw)
	if err != nil {
		return template.View{}, false
	}
	return v.Apply(vars), true
}

// Hold makes the named views report as not cached.
func (m *MockTemplates) Hold(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range names {
		m.held[n] = true
	}
}

// Release makes the named views available again.
func (m *MockTemplates) Release(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range names {
		delete(m.held, n)
	}
}

// Calls returns how often a view was requested.
func (m *MockTemplates) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

// MockSink records completion results.
type MockSink struct {
	mu      sync.Mutex
	results []calibration.Result
}

// NewMockSink creates an empty sink.
func NewMockSink() *MockSink {
	return &MockSink{}
}

// OnComplete is the completion callback.
func (s *MockSink) OnComplete(r calibration.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

// Count returns the number of results received.
func (s *MockSink) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// Last returns the most recent result.
func (s *MockSink) Last() (calibration.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.results) == 0 {
		return calibration.Result{}, false
	}
	return s.results[len(s.results)-1], true
}
