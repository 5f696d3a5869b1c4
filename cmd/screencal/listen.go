package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/screencal/internal/logger"
	"github.com/mark3labs/screencal/internal/nats"
	"github.com/mark3labs/screencal/internal/report"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var listenFlags struct {
	url     string
	port    int
	session string
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Print calibration results as they are published",
	Long: `Subscribe to calibration results published over NATS and print them.

Without --url an embedded NATS server is started on --port, so participants
can run 'screencal run --publish --nats-url nats://<host>:<port>' against it.`,
	RunE: runListen,
}

func init() {
	listenCmd.Flags().StringVar(&listenFlags.url, "url", "", "External NATS server (default: start an embedded server)")
	listenCmd.Flags().IntVar(&listenFlags.port, "port", 0, "Port for the embedded server (default: nats_port from config)")
	listenCmd.Flags().StringVar(&listenFlags.session, "session", "", "Only print results of this session")
}

func runListen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	url := cfg.NATSURL
	if cmd.Flags().Changed("url") {
		url = listenFlags.url
	}
	port := cfg.NATSPort
	if cmd.Flags().Changed("port") {
		port = listenFlags.port
	}

	nc, ns, err := connectNATS(url, port)
	if err != nil {
		return err
	}
	defer func() { _ = nats.Shutdown(nc, ns) }()

	subject := nats.SubjectAll
	if listenFlags.session != "" {
		subject = nats.SubjectForSession(listenFlags.session)
	}

	profile := stdoutProfile()
	if _, err := nats.Subscribe(nc, subject, func(env nats.Envelope) {
		fmt.Printf("\n%s  %s\n", env.CompletedAt.Local().Format("15:04:05"), env.Session)
		report.ConsoleSink(os.Stdout, profile)(env.Result)
	}); err != nil {
		return err
	}

	if ns != nil {
		fmt.Printf("Listening on %s (embedded server, port %d)\n", subject, port)
	} else {
		fmt.Printf("Listening on %s at %s\n", subject, url)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}

// connectNATS dials url, or starts an embedded server on port when url is
// empty. The returned server is nil for external connections.
func connectNATS(url string, port int) (*natsgo.Conn, *server.Server, error) {
	if url != "" {
		nc, err := nats.Connect(url)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		return nc, nil, nil
	}

	ns, err := nats.StartEmbeddedNATS(port)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start embedded NATS: %w", err)
	}
	nc, err := nats.ConnectInProcess(ns)
	if err != nil {
		ns.Shutdown()
		return nil, nil, fmt.Errorf("failed to connect to embedded NATS: %w", err)
	}
	logger.Debug("Using embedded NATS server")
	return nc, ns, nil
}
