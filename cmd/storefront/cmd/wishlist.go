package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aishop/storefront/internal/app"
	"github.com/aishop/storefront/internal/core/domain"
)

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Inspect and change the wishlist",
}

var wishlistShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List wishlisted product ids",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		ids, err := a.Wishlist.List(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), domain.WishlistResponse{Wishlist: ids})
	}),
}

var wishlistToggleCmd = &cobra.Command{
	Use:   "toggle <product-id>",
	Short: "Add the product if absent, remove it if present",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		m := a.Wishlist.Membership(domain.Identifier(args[0]))
		m.Check(cmd.Context())
		in, err := m.Toggle(cmd.Context())
		if err != nil {
			return err
		}
		state := "removed from"
		if in {
			state = "added to"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "product %s %s wishlist\n", args[0], state)
		return nil
	}),
}

func init() {
	wishlistCmd.AddCommand(wishlistShowCmd, wishlistToggleCmd)
	rootCmd.AddCommand(wishlistCmd)
}
