package calmcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/screencal/internal/calibration"
)

// ObjectInfo describes a catalog entry to tool callers.
type ObjectInfo struct {
	Kind            string  `json:"kind"`
	Name            string  `json:"name"`
	PhysicalWidthCm float64 `json:"physicalWidthCm"`
	BaseWidthPx     int     `json:"baseWidthPx"`
	BaseHeightPx    int     `json:"baseHeightPx"`
	MaxScale        float64 `json:"maxScale"`
}

// ObjectDerivation is the derive-from-object answer.
type ObjectDerivation struct {
	Object         string             `json:"object"`
	Ratio          float64            `json:"ratio"`
	ScaledWidthPx  float64            `json:"scaledWidthPx"`
	ScaledHeightPx float64            `json:"scaledHeightPx"`
	RawDiagonal    float64            `json:"rawDiagonal"`
	Accepted       bool               `json:"accepted"`
	Result         calibration.Result `json:"result"`
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list-reference-objects",
			mcp.WithDescription("List the reference objects that can be used to measure a screen"),
		),
		s.handleListObjects,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("derive-metrics",
			mcp.WithDescription("Derive pixels per inch and pixels per degree from a known screen diagonal"),
			mcp.WithNumber("width", mcp.Required(), mcp.Description("Screen width in device pixels")),
			mcp.WithNumber("height", mcp.Required(), mcp.Description("Screen height in device pixels")),
			mcp.WithNumber("diagonal", mcp.Required(), mcp.Description("Screen diagonal in inches, between 0 and 60")),
			mcp.WithNumber("distance", mcp.Description("Viewing distance in centimeters")),
		),
		s.handleDeriveMetrics,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("derive-from-object",
			mcp.WithDescription("Derive the screen diagonal from a reference object matched on screen at a slider ratio"),
			mcp.WithNumber("width", mcp.Required(), mcp.Description("Screen width in device pixels")),
			mcp.WithNumber("height", mcp.Required(), mcp.Description("Screen height in device pixels")),
			mcp.WithString("object", mcp.Required(),
				mcp.Description("Reference object"),
				mcp.Enum("credit-card", "compact-disk"),
			),
			mcp.WithNumber("ratio", mcp.Required(), mcp.Description("Slider ratio in [0, 1]")),
			mcp.WithNumber("distance", mcp.Description("Viewing distance in centimeters")),
		),
		s.handleDeriveFromObject,
	)
}

func (s *Server) handleListObjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var infos []ObjectInfo
	for _, o := range s.catalog.Objects() {
		infos = append(infos, ObjectInfo{
			Kind:            o.Kind.String(),
			Name:            o.Name,
			PhysicalWidthCm: o.PhysicalWidthCm,
			BaseWidthPx:     o.BaseWidthPx,
			BaseHeightPx:    o.BaseHeightPx,
			MaxScale:        o.MaxScale,
		})
	}
	return jsonResult(infos)
}

func (s *Server) handleDeriveMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	model, errResult := s.modelFromRequest(request)
	if errResult != nil {
		return errResult, nil
	}

	diagonal, err := request.RequireFloat("diagonal")
	if err != nil {
		return mcp.NewToolResultError("missing or invalid 'diagonal' parameter"), nil
	}
	if err := model.SetDiagonalInches(diagonal); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("diagonal %g: %v", diagonal, err)), nil
	}
	return jsonResult(model.Result(calibration.StatusConfirmed))
}

func (s *Server) handleDeriveFromObject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	model, errResult := s.modelFromRequest(request)
	if errResult != nil {
		return errResult, nil
	}

	name, err := request.RequireString("object")
	if err != nil {
		return mcp.NewToolResultError("missing 'object' parameter"), nil
	}
	kind, err := calibration.ParseObjectKind(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	o, ok := s.catalog.Get(kind)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("object %q is not in the catalog", name)), nil
	}

	ratio, err := request.RequireFloat("ratio")
	if err != nil {
		return mcp.NewToolResultError("missing or invalid 'ratio' parameter"), nil
	}

	model.SelectObject(o)
	model.SetScaleRatio(ratio)
	raw, accepted := model.DeriveFromObject()
	w, h, _ := model.ScaledObjectSize()

	return jsonResult(ObjectDerivation{
		Object:         kind.String(),
		Ratio:          model.ScaleRatio(),
		ScaledWidthPx:  w,
		ScaledHeightPx: h,
		RawDiagonal:    raw,
		Accepted:       accepted,
		Result:         model.Result(calibration.StatusConfirmed),
	})
}

// modelFromRequest reads the resolution and distance shared by the derive
// tools. A non-nil result is the error to return to the caller.
func (s *Server) modelFromRequest(request mcp.CallToolRequest) (*calibration.SizeModel, *mcp.CallToolResult) {
	width, err := request.RequireFloat("width")
	if err != nil {
		return nil, mcp.NewToolResultError("missing or invalid 'width' parameter")
	}
	height, err := request.RequireFloat("height")
	if err != nil {
		return nil, mcp.NewToolResultError("missing or invalid 'height' parameter")
	}
	res := calibration.Resolution{Width: int(width), Height: int(height)}
	if !res.Valid() {
		return nil, mcp.NewToolResultError(calibration.ErrInvalidResolution.Error())
	}
	distance := request.GetFloat("distance", s.distanceCm)
	return calibration.NewSizeModel(res, distance), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
