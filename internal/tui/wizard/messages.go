package wizard

import "github.com/mark3labs/screencal/internal/calibration"

// ViewsLoadedMsg is sent once every required view is cached.
type ViewsLoadedMsg struct{}

// ViewReloadedMsg is sent when an edited view override has been re-cached.
type ViewReloadedMsg struct {
	Name string
}

// retryContentMsg asks the model to look for a view that was not cached on
// the last render.
type retryContentMsg struct{}

// CompletedMsg is sent when the calibration session completes.
type CompletedMsg struct {
	Result calibration.Result
}
