package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/screencal/internal/calibration"
	"github.com/mark3labs/screencal/internal/calmcp"
	"github.com/spf13/cobra"
)

var mcpFlags struct {
	port int
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the derivation tools over MCP",
	Long: `Serve the size derivation tools over MCP (streamable HTTP).

Tools:
  list-reference-objects  objects that can be matched on screen
  derive-metrics          ppi and ppd from a known diagonal
  derive-from-object      diagonal, ppi and ppd from a matched object and ratio`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().IntVarP(&mcpFlags.port, "port", "p", 0, "Port to listen on (default: random free port)")
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := calmcp.New(calibration.DefaultCatalog(), cfg.DistanceCm)
	if _, err := srv.Start(ctx, mcpFlags.port); err != nil {
		return fmt.Errorf("failed to start MCP server: %w", err)
	}
	defer func() { _ = srv.Stop() }()

	fmt.Printf("MCP server listening at %s\n", srv.URL())
	<-ctx.Done()
	fmt.Println("\nShutting down...")
	return nil
}
