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
	"golang.org/x/sync/errgroup"

	"image-watcher/internal/handlers"
	"image-watcher/internal/indexer"
	"image-watcher/internal/logging"
	"image-watcher/internal/memory"
	"image-watcher/internal/middleware"
	"image-watcher/internal/startup"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(opts *globalOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Watch the folder and expose the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				config.Port = port
				if err := config.Validate(); err != nil {
					return err
				}
			}
			return runServer(cmd.Context(), config)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP port (default: PORT or 8080)")
	return cmd
}

func runServer(parent context.Context, config *startup.Config) error {
	startTime := time.Now()

	memory.Configure()
	startup.LogConfig(config)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	idx := newIndexer(config, nil)
	defer idx.Close()
	idx.SetOnSyncComplete(logSyncComplete)

	// The API answers from the saved index while the initial sync runs.
	startup.LogIndexerInit(config.WatchDir, config.Recursive)
	go func() {
		result, err := idx.Resync(ctx)
		if err != nil {
			logging.Error("Initial sync failed: %v", err)
			return
		}
		startup.LogIndexerStarted(result, config.IndexPath())
	}()

	h, err := handlers.New(idx, config)
	if err != nil {
		return err
	}

	router := handlers.NewRouter(h, config.MetricsEnabled)
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)
	handler := middleware.Compression(middleware.DefaultCompressionConfig())(loggedHandler)

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runWatcher(gctx, config, idx)
	})

	g.Go(func() error {
		startup.LogServerStarted(startup.ServerConfig{
			Port:            config.Port,
			MetricsEnabled:  config.MetricsEnabled,
			StartupDuration: time.Since(startTime),
		})
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		reason := "context cancelled"
		select {
		case sig := <-sigChan:
			reason = sig.String()
		case <-gctx.Done():
		}
		shutdown(reason, srv, h, idx, cancel)
		return nil
	})

	return g.Wait()
}

func shutdown(reason string, srv *http.Server, h *handlers.Handlers, idx *indexer.Indexer, cancel context.CancelFunc) {
	startup.LogShutdownInitiated(reason)

	startup.ShutdownStep("Stopped watcher and syncs", func() error {
		cancel()
		h.Shutdown()
		idx.Close()
		return nil
	})

	startup.ShutdownStep("Stopped HTTP server", func() error {
		ctx, cancelTimeout := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelTimeout()
		return srv.Shutdown(ctx)
	})

	startup.LogShutdownComplete()
}
