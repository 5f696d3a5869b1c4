package hooks

// Config is the top-level configuration loaded from .screencal.hooks.yml.
type Config struct {
	Version int         `yaml:"version"`
	Hooks   HooksConfig `yaml:"hooks"`
}

// HooksConfig contains all hook configurations.
type HooksConfig struct {
	// OnComplete runs after a calibration session completes, confirmed or
	// dismissed. Each command receives the result JSON on stdin.
	OnComplete []*HookConfig `yaml:"on_complete"`
}

// HookConfig defines a single hook's configuration.
type HookConfig struct {
	Command    string `yaml:"command"`
	Timeout    int    `yaml:"timeout"`     // seconds, default 30
	PipeOutput bool   `yaml:"pipe_output"` // include output in the combined report
}

// DefaultTimeout is the default timeout for hook execution in seconds.
const DefaultTimeout = 30
