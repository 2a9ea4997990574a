package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aishop/storefront/internal/app"
	"github.com/aishop/storefront/internal/core/domain"
)

var (
	authEmail    string
	authPassword string
	authName     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login with email and password",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		if !a.Session.Login(cmd.Context(), authEmail, authPassword) {
			return sessionError(a, domain.MsgLoginFailed)
		}
		return printJSON(cmd.OutOrStdout(), a.Session.Snapshot())
	}),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and login",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		in := domain.RegisterInput{Name: authName, Email: authEmail, Password: authPassword}
		if !a.Session.Register(cmd.Context(), in) {
			return sessionError(a, domain.MsgRegisterFailed)
		}
		return printJSON(cmd.OutOrStdout(), a.Session.Snapshot())
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and revoke the stored token",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		a.Session.Logout()
		fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		return nil
	}),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		return printJSON(cmd.OutOrStdout(), a.Session.Snapshot())
	}),
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Request a password reset email",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		if !a.Session.ResetPassword(cmd.Context(), authEmail) {
			return sessionError(a, domain.MsgResetFailed)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "reset link requested")
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd, resetPasswordCmd} {
		c.Flags().StringVarP(&authEmail, "email", "e", "", "account email")
	}
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVarP(&authPassword, "password", "p", "", "account password")
	}
	registerCmd.Flags().StringVarP(&authName, "name", "n", "", "display name")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, resetPasswordCmd)
}
