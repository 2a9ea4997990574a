package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aishop/storefront/internal/app"
)

var devserverPort string

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run the local contract server the client talks to",
	Long: `Serves the storefront API under /api with in-memory accounts and wishlists,
plus /health, /health/ready and /metrics. Tokens are HS256 JWTs signed with
JWT_SECRET and revoked on logout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, err := app.NewDevServer(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer srv.Close()

		port := cfg.DevServer.Port
		if devserverPort != "" {
			port = devserverPort
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", port).Msg("contract server listening")
			if err := srv.Echo.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down contract server")
		return srv.Echo.Shutdown(shutdownCtx)
	},
}

func init() {
	devserverCmd.Flags().StringVar(&devserverPort, "port", "", "listen port (default DEVSERVER_PORT)")
	rootCmd.AddCommand(devserverCmd)
}
