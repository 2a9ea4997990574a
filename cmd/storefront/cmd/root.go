package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aishop/storefront/internal/app"
	"github.com/aishop/storefront/internal/infrastructure/config"
	"github.com/aishop/storefront/pkg/logger"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront client session manager",
	Long: `storefront drives the client side of the shop: authentication session,
wishlist, recently viewed products and theme preference.

Configuration comes from the environment (and a .env file when present):
  API_URL        storefront API base URL (default http://localhost:5000/api)
  STORE_BACKEND  file | memory | redis | mongo (default file)
  STORE_DIR      directory of the file store (default ~/.storefront)

Use "storefront [command] --help" for more information about a command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}

		var err error
		cfg, err = config.Load(cmd.Context())
		if err != nil {
			return err
		}

		log = logger.Init(logger.Options{
			Level:  cfg.LogLevel,
			Pretty: cfg.LogPretty,
			App:    "storefront",
		})
		return nil
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// withApp builds and starts a client for the duration of run. Every command
// that touches the session goes through it, so the stored token is always
// validated first.
func withApp(run func(cmd *cobra.Command, args []string, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(context.Background()); err != nil {
				log.Warn().Err(err).Msg("close")
			}
		}()

		a.Start(ctx)
		return run(cmd, args, a)
	}
}

// sessionError turns a failed session operation into a command error.
func sessionError(a *app.App, fallback string) error {
	if msg := a.Session.Snapshot().Error; msg != "" {
		return errors.New(msg)
	}
	return errors.New(fallback)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
