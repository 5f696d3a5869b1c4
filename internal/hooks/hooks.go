// Package hooks runs user-configured shell commands when a calibration
// session completes.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/logger"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the default name of the hooks configuration file.
const ConfigFileName = ".screencal.hooks.yml"

// LoadConfig loads the hooks configuration from path.
// Returns nil if the file doesn't exist (hooks are optional).
// Returns an error only if the file exists but cannot be parsed.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("No hooks config found at %s", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}

	logger.Debug("Loaded hooks config from %s (version: %d)", path, cfg.Version)
	return &cfg, nil
}

// Variables holds template variables that can be expanded in hook commands.
type Variables struct {
	Session  string
	Status   string
	Diagonal string
	PPI      string
	PPD      string
}

// VariablesFor builds the variables of a completed session. Unknown sizes
// expand to empty strings.
func VariablesFor(session string, r calibration.Result) Variables {
	return Variables{
		Session:  session,
		Status:   r.Status.String(),
		Diagonal: formatOptional(r.DiagonalSize),
		PPI:      formatOptional(r.PixelsPerInch),
		PPD:      formatOptional(r.PixelsPerDegree),
	}
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// Execute runs a hook command with stdin as its input and returns its output.
// Template variables in the command ({{session}}, {{status}}, {{diagonal}},
// {{ppi}}, {{ppd}}) are expanded before execution.
// On error, returns an error message as output and nil error (graceful degradation).
// Only returns error for context cancellation.
func Execute(ctx context.Context, hook *HookConfig, workDir string, vars Variables, stdin []byte) (string, error) {
	if hook == nil || hook.Command == "" {
		return "", nil
	}

	command := expandVariables(hook.Command, vars)
	logger.Debug("Executing hook command: %s", command)

	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = workDir
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	// Cancellation of the parent propagates
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
		logger.Warn("Hook command timed out after %ds: %s", timeout, command)
		return fmt.Sprintf("[Hook timed out after %ds]\nPartial output:\n%s", timeout, stdout.String()), nil
	}

	if err != nil {
		logger.Warn("Hook command failed: %v", err)
		output := stdout.String()
		if stderr.Len() > 0 {
			output += "\n[stderr]\n" + stderr.String()
		}
		return fmt.Sprintf("[Hook command failed: %v]\n%s", err, output), nil
	}

	output := stdout.String()
	if stderr.Len() > 0 {
		logger.Debug("Hook stderr: %s", stderr.String())
		output += "\n[stderr]\n" + stderr.String()
	}

	logger.Debug("Hook executed successfully, output length: %d bytes", len(output))
	return output, nil
}

// ExecuteAllPiped runs hooks in order and joins the output of those with
// pipe_output set, separated by blank lines.
func ExecuteAllPiped(ctx context.Context, hooks []*HookConfig, workDir string, vars Variables, stdin []byte) (string, error) {
	var parts []string
	for _, hook := range hooks {
		output, err := Execute(ctx, hook, workDir, vars, stdin)
		if err != nil {
			return "", err
		}
		if hook.PipeOutput && output != "" {
			parts = append(parts, output)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// RunOnComplete runs the on_complete hooks for a finished session with the
// result JSON on stdin.
func RunOnComplete(ctx context.Context, cfg *Config, workDir, session string, r calibration.Result) (string, error) {
	if cfg == nil || len(cfg.Hooks.OnComplete) == 0 {
		return "", nil
	}
	data, err := r.JSON()
	if err != nil {
		return "", err
	}
	return ExecuteAllPiped(ctx, cfg.Hooks.OnComplete, workDir, VariablesFor(session, r), data)
}

// expandVariables replaces {{variable}} placeholders in the command string.
func expandVariables(command string, vars Variables) string {
	return strings.NewReplacer(
		"{{session}}", vars.Session,
		"{{status}}", vars.Status,
		"{{diagonal}}", vars.Diagonal,
		"{{ppi}}", vars.PPI,
		"{{ppd}}", vars.PPD,
	).Replace(command)
}
