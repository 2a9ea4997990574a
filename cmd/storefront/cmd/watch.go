package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aishop/storefront/internal/app"
	"github.com/aishop/storefront/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stay open like a browser tab and follow changes from other processes",
	Long: `Keeps a client running and reloads the session, recently viewed list and
theme whenever another storefront process changes the file store. Every change
is printed as JSON. Stop with Ctrl-C.`,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		unsubscribe := a.Session.Subscribe(func(s domain.Session) {
			_ = printJSON(out, map[string]any{"session": s})
		})
		defer unsubscribe()
		a.Navigator.Subscribe(func(r domain.Route) {
			_ = printJSON(out, map[string]any{"route": r})
		})

		_ = printJSON(out, map[string]any{"session": a.Session.Snapshot()})
		err := a.Watch(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}),
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
