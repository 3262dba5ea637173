package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prism/internal/pipeline"
	"github.com/sells-group/prism/internal/review"
	"github.com/sells-group/prism/internal/server"
	"github.com/sells-group/prism/internal/store"
	anthropicpkg "github.com/sells-group/prism/pkg/anthropic"
)

var (
	servePort    int
	serveNoStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the upload API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		checker, err := pipeline.NewCheckerFromConfig(cfg)
		if err != nil {
			return err
		}

		opts := server.Options{
			MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
			CORSOrigins:    cfg.Server.CORSOrigins,
		}

		if !serveNoStore && cfg.Store.Driver != "" {
			var st store.Store
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			opts.Store = st
		}

		if cfg.Anthropic.Key != "" {
			opts.Reviewer = review.NewGenerator(anthropicpkg.NewClient(cfg.Anthropic.Key), cfg.Anthropic)
		} else {
			zap.L().Info("review generation disabled (PRISM_ANTHROPIC_KEY not set)")
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           server.New(checker, opts).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.Bool("store", opts.Store != nil))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "do not persist uploaded reports")
	rootCmd.AddCommand(serveCmd)
}
