package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aishop/storefront/internal/app"
	"github.com/aishop/storefront/internal/core/domain"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Maintenance of the persisted local store",
}

var storeResetCmd = &cobra.Command{
	Use:       "reset <key>",
	Short:     "Delete a stored entry and reload its consumers",
	Long:      "Clears an entry that keeps failing to decode. Valid keys: token, darkMode, recentlyViewed.",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{domain.KeyToken, domain.KeyDarkMode, domain.KeyRecentlyViewed},
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		a.Store.Reset(cmd.Context(), args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "%s reset\n", args[0])
		return nil
	}),
}

func init() {
	storeCmd.AddCommand(storeResetCmd)
	rootCmd.AddCommand(storeCmd)
}
