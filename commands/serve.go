package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/penwyp/go-career-timeline/internal/analyzer"
	"github.com/penwyp/go-career-timeline/internal/application/serve"
	"github.com/penwyp/go-career-timeline/internal/application/watch"
	"github.com/penwyp/go-career-timeline/internal/data/parser"
	"github.com/penwyp/go-career-timeline/internal/data/source"
	"github.com/penwyp/go-career-timeline/internal/data/watcher"
	"github.com/penwyp/go-career-timeline/internal/presentation/layout"
	"github.com/penwyp/go-career-timeline/internal/util"
	"github.com/spf13/cobra"
)

const defaultPort = "8080"

var (
	servePort          string
	serveFetchInterval time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve [input...]",
	Short: "Serve computed timelines over HTTP",
	Long: `Starts an HTTP server that lays out the latest records per request.

Routes:
  GET /api/timeline       full timeline (query: column_width, viewport_width, padding, now, category)
  GET /api/timeline/grid  month grid and scroll geometry only
  GET /healthz            readiness and last fetch state

The port comes from --port, then the PORT environment variable (a .env file
is loaded if present), then ` + defaultPort + `.`,
	Args: cobra.ArbitraryArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "",
		"Listen port (default $PORT or "+defaultPort+")")
	serveCmd.Flags().DurationVar(&serveFetchInterval, "fetch-interval", 5*time.Minute,
		"Re-fetch all inputs at this interval (0 = only on file change)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := initLogging(); err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("fetch-interval") || cfg.FetchInterval == 0 {
		cfg.FetchInterval = serveFetchInterval
	}
	cats, err := cfg.ParsedCategories()
	if err != nil {
		return err
	}

	src, err := source.NewMulti(cfg.Inputs, parser.NewParser(cfg.Concurrency))
	if err != nil {
		return err
	}

	clock, err := analyzer.ResolveClock(now, cfg.Timezone)
	if err != nil {
		return err
	}
	opts := []watch.Option{watch.WithClock(clock)}
	if paths := source.Paths(src); len(paths) > 0 {
		fw, err := watcher.NewFileWatcher(paths)
		if err != nil {
			return fmt.Errorf("failed to watch inputs: %w", err)
		}
		opts = append(opts, watch.WithFileMonitor(fw))
	}

	orchestrator, err := watch.NewOrchestrator(cfg, source.NewCachedSource(src), nil, opts...)
	if err != nil {
		return err
	}

	cw := cfg.ColumnWidth
	if cw == 0 {
		cw = layout.GetLayoutStrategyByName("desktop").ColumnWidth()
	}
	server := serve.NewServer(orchestrator.State(), clock, serve.Defaults{
		ColumnWidth:    cw,
		ViewportWidth:  cfg.ViewportWidth,
		LeadingPadding: cfg.LeadingPadding,
		Categories:     cats,
	})

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	httpServer := &http.Server{
		Addr:              ":" + resolvePort(servePort),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		if err := orchestrator.Run(ctx); err != nil {
			errCh <- err
		}
	}()
	go func() {
		util.LogInfof("Listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server failed: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err = <-errCh:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		util.LogErrorf("Failed to shut down http server: %v", shutdownErr)
	}
	return err
}

func resolvePort(flag string) string {
	if flag != "" {
		return flag
	}
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return defaultPort
}
