package hooks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/tui/testfixtures"
	"github.com/stretchr/testify/require"
)

func TestExecuteAllPiped(t *testing.T) {
	ctx := context.Background()
	workDir := t.TempDir()
	vars := Variables{Session: "test", Status: "confirmed"}

	tests := []struct {
		name     string
		hooks    []*HookConfig
		expected string
	}{
		{
			name:     "no hooks",
			hooks:    []*HookConfig{},
			expected: "",
		},
		{
			name: "single hook with pipe_output true",
			hooks: []*HookConfig{
				{Command: "echo 'piped'", Timeout: 5, PipeOutput: true},
			},
			expected: "piped\n",
		},
		{
			name: "single hook with pipe_output false",
			hooks: []*HookConfig{
				{Command: "echo 'not piped'", Timeout: 5, PipeOutput: false},
			},
			expected: "",
		},
		{
			name: "multiple hooks mixed pipe_output",
			hooks: []*HookConfig{
				{Command: "echo 'first piped'", Timeout: 5, PipeOutput: true},
				{Command: "echo 'not piped'", Timeout: 5, PipeOutput: false},
				{Command: "echo 'second piped'", Timeout: 5, PipeOutput: true},
			},
			expected: "first piped\n\nsecond piped\n",
		},
		{
			name: "variables are expanded",
			hooks: []*HookConfig{
				{Command: "echo '{{session}} {{status}}'", Timeout: 5, PipeOutput: true},
			},
			expected: "test confirmed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := ExecuteAllPiped(ctx, tt.hooks, workDir, vars, nil)
			if err != nil {
				t.Fatalf("ExecuteAllPiped() error = %v", err)
			}
			if output != tt.expected {
				t.Errorf("ExecuteAllPiped() output = %q, expected %q", output, tt.expected)
			}
		})
	}
}

func TestExecuteAllPiped_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hooks := []*HookConfig{
		{Command: "echo 'test'", Timeout: 5, PipeOutput: true},
	}

	_, err := ExecuteAllPiped(ctx, hooks, t.TempDir(), Variables{}, nil)
	if err == nil {
		t.Error("ExecuteAllPiped() expected error for cancelled context, got nil")
	}
}

func TestExecute_FailureIsReportedAsOutput(t *testing.T) {
	out, err := Execute(context.Background(), &HookConfig{Command: "echo oops >&2; exit 3"}, t.TempDir(), Variables{}, nil)
	require.NoError(t, err)
	require.Contains(t, out, "[Hook command failed")
	require.Contains(t, out, "[stderr]\noops")
}

func TestExecute_Timeout(t *testing.T) {
	out, err := Execute(context.Background(), &HookConfig{Command: "echo started; sleep 5", Timeout: 1}, t.TempDir(), Variables{}, nil)
	require.NoError(t, err)
	require.Contains(t, out, "[Hook timed out after 1s]")
	require.Contains(t, out, "started")
}

func TestExecute_EmptyCommand(t *testing.T) {
	out, err := Execute(context.Background(), nil, "", Variables{}, nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestVariablesFor(t *testing.T) {
	vars := VariablesFor("s1", testfixtures.ConfirmedResult())
	require.Equal(t, Variables{
		Session:  "s1",
		Status:   "confirmed",
		Diagonal: "24.00",
		PPI:      "91.79",
		PPD:      "34.31",
	}, vars)

	dismissed := VariablesFor("s2", testfixtures.DismissedResult())
	require.Equal(t, "dismissed", dismissed.Status)
	require.Empty(t, dismissed.Diagonal)
	require.Empty(t, dismissed.PPI)
}

func TestRunOnComplete_ResultOnStdin(t *testing.T) {
	cfg := &Config{Hooks: HooksConfig{OnComplete: []*HookConfig{
		{Command: "cat", PipeOutput: true},
		{Command: "echo ppi={{ppi}}", PipeOutput: true},
	}}}

	out, err := RunOnComplete(context.Background(), cfg, t.TempDir(), testfixtures.FixedSession, testfixtures.ConfirmedResult())
	require.NoError(t, err)
	require.Contains(t, out, `"diagonalSize": 24`)
	require.True(t, strings.HasSuffix(out, "ppi=91.79\n"))

	out, err = RunOnComplete(context.Background(), nil, "", "", calibration.Result{})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	require.Nil(t, cfg, "missing file is not an error")

	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`version: 1
hooks:
  on_complete:
    - command: "notify-send {{diagonal}}"
      timeout: 10
      pipe_output: true
`), 0644))

	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 1, cfg.Version)
	require.Len(t, cfg.Hooks.OnComplete, 1)
	require.Equal(t, 10, cfg.Hooks.OnComplete[0].Timeout)
	require.True(t, cfg.Hooks.OnComplete[0].PipeOutput)

	require.NoError(t, os.WriteFile(path, []byte("hooks: ["), 0644))
	_, err = LoadConfig(path)
	require.Error(t, err)
}
