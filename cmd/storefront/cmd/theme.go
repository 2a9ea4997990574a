package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aishop/storefront/internal/app"
	"github.com/aishop/storefront/internal/infrastructure/navigation"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the dark mode preference",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		fmt.Fprintln(cmd.OutOrStdout(), a.Document.Theme())
		return nil
	}),
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between light and dark",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		a.Theme.Toggle(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), a.Document.Theme())
		return nil
	}),
}

var themeSetCmd = &cobra.Command{
	Use:       "set <light|dark>",
	Short:     "Set the theme explicitly",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{navigation.ThemeLight, navigation.ThemeDark},
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		a.Theme.Set(cmd.Context(), args[0] == navigation.ThemeDark)
		fmt.Fprintln(cmd.OutOrStdout(), a.Document.Theme())
		return nil
	}),
}

func init() {
	themeCmd.AddCommand(themeToggleCmd, themeSetCmd)
	rootCmd.AddCommand(themeCmd)
}
