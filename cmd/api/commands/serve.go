package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gestionale/internal/config"
	"gestionale/internal/seed"
	"gestionale/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	var withSeed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			st, err := server.OpenStorage(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			if withSeed || cfg.StorageDriver == config.StorageMemory {
				fixtures, err := seed.Default()
				if err != nil {
					return err
				}
				if _, err := seed.Apply(ctx, st.SeedStores(), fixtures, log); err != nil {
					return err
				}
			}

			srv, err := server.NewServer(ctx, cfg, st, log)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("server listening", zap.String("addr", srv.Addr), zap.String("storage", cfg.StorageDriver))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down server gracefully")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("server shutdown", zap.Error(err))
				return err
			}
			log.Info("server exiting")
			return nil
		},
	}
	cmd.Flags().BoolVar(&withSeed, "seed", false, "load the demo data before serving")
	return cmd
}
