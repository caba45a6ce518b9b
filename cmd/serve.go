package cmd

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

	"github.com/toreleon/portfolio/internal/content"
)

var serveOpts struct {
	addr  string
	watch bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site locally for preview",
	Long: `serve renders pages on request from the current content. With --watch
the content directory is reloaded whenever it changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Addr
		if serveOpts.addr != "" {
			addr = serveOpts.addr
		}

		store, s, err := newSite()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if serveOpts.watch {
			if err := store.Watch(ctx, content.DefaultDebounce); err != nil {
				return fmt.Errorf("failed to watch content: %w", err)
			}
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           s.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("serving", "addr", addr, "base", s.URL("/"), "watch", serveOpts.watch)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveOpts.addr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveOpts.watch, "watch", false, "reload content when it changes")
	rootCmd.AddCommand(serveCmd)
}
