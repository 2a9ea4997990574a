package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/aishop/storefront/internal/app"
	"github.com/aishop/storefront/internal/core/domain"
)

var (
	profileName  string
	profileEmail string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update the signed-in user's profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Fetch the profile from the server",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		if !a.Session.IsAuthenticated() {
			return errors.New("not logged in")
		}
		if !a.Session.RefreshProfile(cmd.Context()) {
			return sessionError(a, domain.MsgProfileFailed)
		}
		return printJSON(cmd.OutOrStdout(), a.Session.Snapshot().User)
	}),
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update name and/or email",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		in := domain.ProfileInput{Name: profileName, Email: profileEmail}
		if !a.Session.UpdateProfile(cmd.Context(), in) {
			return sessionError(a, domain.MsgProfileFailed)
		}
		return printJSON(cmd.OutOrStdout(), a.Session.Snapshot().User)
	}),
}

func init() {
	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "new display name")
	profileUpdateCmd.Flags().StringVar(&profileEmail, "email", "", "new email")

	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}
