// reqtap demo server: wraps a few sample endpoints with the request-logging
// interceptor so the emitted records can be inspected end to end.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/reqtap/reqtap/pkg/config"
	"github.com/reqtap/reqtap/pkg/diag"
	"github.com/reqtap/reqtap/pkg/logging"
	"github.com/reqtap/reqtap/pkg/sink"
	"github.com/reqtap/reqtap/pkg/tap"
)

var (
	flagAddr      string
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

func main() {
	root := &cobra.Command{
		Use:   "reqtap",
		Short: "Demo HTTP server with request/response observability logging",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
		SilenceUsage: true,
	}
	root.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
	root.Flags().StringVar(&flagConfig, "config", "", "path to reqtap.yaml")
	root.Flags().StringVar(&flagLogLevel, "log-level", "", "minimum log level (debug|info|warn|error)")
	root.Flags().StringVar(&flagLogFormat, "log-format", "", "log output format (text|json)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := &config.Config{Addr: ":8080"}
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.Log.Format = flagLogFormat
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: logging.ParseFormat(cfg.Log.Format),
	})

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts.Diagnostics = diag.NewSlogReporter(logger)
	opts.Enrichers = []tap.Enricher{
		tap.HostEnricher(),
		tap.UserEnricher(),
	}

	target := sink.Sink(sink.NewSlogSink(logger))
	var fileSink *sink.FileSink
	if cfg.File.Path != "" {
		fileSink = sink.NewFileSink(sink.FileSinkConfig{
			Path:       cfg.File.Path,
			MaxSizeMB:  cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAgeDays: cfg.File.MaxAgeDays,
		})
		defer fileSink.Close()
		target = sink.NewMulti(target, fileSink)
	}
	opts.Sink = target

	handler, err := tap.New(demoMux(), opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("reqtap demo server listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
