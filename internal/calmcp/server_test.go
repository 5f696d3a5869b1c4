package calmcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/stretchr/testify/require"
)

// extractText returns the text of the first content block.
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestServerStartRandomPort(t *testing.T) {
	s := New(nil, 0)

	port, err := s.Start(context.Background(), 0)
	require.NoError(t, err)
	require.Greater(t, port, 0)
	require.Equal(t, fmt.Sprintf("http://localhost:%d/mcp", port), s.URL())

	_, err = s.Start(context.Background(), 0)
	require.ErrorIs(t, err, ErrAlreadyStarted)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop(), "second stop is a no-op")
}

func TestHandleListObjects(t *testing.T) {
	s := New(nil, 0)
	result, err := s.handleListObjects(context.Background(), call("list-reference-objects", nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var infos []ObjectInfo
	require.NoError(t, json.Unmarshal([]byte(extractText(result)), &infos))
	require.Len(t, infos, 2)
	require.Equal(t, "credit-card", infos[0].Kind)
	require.Equal(t, 8.56, infos[0].PhysicalWidthCm)
	require.Equal(t, "compact-disk", infos[1].Kind)
}

func TestHandleDeriveMetrics(t *testing.T) {
	s := New(nil, 0)

	t.Run("24 inch full hd", func(t *testing.T) {
		result, err := s.handleDeriveMetrics(context.Background(), call("derive-metrics", map[string]any{
			"width": float64(1920), "height": float64(1080), "diagonal": float64(24),
		}))
		require.NoError(t, err)
		require.False(t, result.IsError, extractText(result))

		var r calibration.Result
		require.NoError(t, json.Unmarshal([]byte(extractText(result)), &r))
		require.InDelta(t, 2202.907, r.DiagonalSizeInPx, 1e-3)
		require.InDelta(t, 91.788, *r.PixelsPerInch, 1e-3)
		require.InDelta(t, 34.307, *r.PixelsPerDegree, 1e-3)
		require.Equal(t, 50.0, *r.DistanceFromScreenInCm)
	})

	t.Run("explicit distance", func(t *testing.T) {
		result, err := s.handleDeriveMetrics(context.Background(), call("derive-metrics", map[string]any{
			"width": float64(1920), "height": float64(1080), "diagonal": float64(24), "distance": float64(100),
		}))
		require.NoError(t, err)
		var r calibration.Result
		require.NoError(t, json.Unmarshal([]byte(extractText(result)), &r))
		require.Equal(t, 100.0, *r.DistanceFromScreenInCm)
		require.Greater(t, *r.PixelsPerDegree, 60.0)
	})

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing width", map[string]any{"height": float64(1080), "diagonal": float64(24)}, "'width'"},
		{"zero resolution", map[string]any{"width": float64(0), "height": float64(1080), "diagonal": float64(24)}, "resolution"},
		{"missing diagonal", map[string]any{"width": float64(1920), "height": float64(1080)}, "'diagonal'"},
		{"diagonal too large", map[string]any{"width": float64(1920), "height": float64(1080), "diagonal": float64(75)}, "60 inches"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.handleDeriveMetrics(context.Background(), call("derive-metrics", tt.args))
			require.NoError(t, err)
			require.True(t, result.IsError)
			require.Contains(t, extractText(result), tt.want)
		})
	}
}

func TestHandleDeriveFromObject(t *testing.T) {
	s := New(nil, 0)

	result, err := s.handleDeriveFromObject(context.Background(), call("derive-from-object", map[string]any{
		"width": float64(1920), "height": float64(1080), "object": "card", "ratio": 0.5,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractText(result))

	var d ObjectDerivation
	require.NoError(t, json.Unmarshal([]byte(extractText(result)), &d))
	require.Equal(t, "credit-card", d.Object)
	require.True(t, d.Accepted)
	require.InDelta(t, 428.0, d.ScaledWidthPx, 1e-9)
	require.InDelta(t, 17.3457, d.RawDiagonal, 1e-3)
	require.InDelta(t, 17.3457, *d.Result.DiagonalSize, 1e-3)

	t.Run("ratio zero is not accepted", func(t *testing.T) {
		result, err := s.handleDeriveFromObject(context.Background(), call("derive-from-object", map[string]any{
			"width": float64(1920), "height": float64(1080), "object": "cd", "ratio": float64(0),
		}))
		require.NoError(t, err)
		var d ObjectDerivation
		require.NoError(t, json.Unmarshal([]byte(extractText(result)), &d))
		require.False(t, d.Accepted)
		require.False(t, d.Result.Known())
	})

	t.Run("unknown object", func(t *testing.T) {
		result, err := s.handleDeriveFromObject(context.Background(), call("derive-from-object", map[string]any{
			"width": float64(1920), "height": float64(1080), "object": "banana", "ratio": 0.5,
		}))
		require.NoError(t, err)
		require.True(t, result.IsError)
		require.Contains(t, extractText(result), "unknown reference object")
	})
}
