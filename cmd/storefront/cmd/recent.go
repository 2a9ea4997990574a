package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aishop/storefront/internal/app"
	"github.com/aishop/storefront/internal/core/domain"
)

var recordProduct domain.Product

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Recently viewed products",
}

var recentListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recently viewed products, most recent first",
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		return printJSON(cmd.OutOrStdout(), a.Recent.List())
	}),
}

var recentRecordCmd = &cobra.Command{
	Use:   "record <product-id>",
	Short: "Record a product view",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app.App) error {
		p := recordProduct
		p.ID = domain.Identifier(args[0])
		a.Recent.Record(cmd.Context(), p)
		return printJSON(cmd.OutOrStdout(), a.Recent.List())
	}),
}

func init() {
	recentRecordCmd.Flags().StringVar(&recordProduct.Name, "name", "", "product name")
	recentRecordCmd.Flags().Float64Var(&recordProduct.Price, "price", 0, "product price")
	recentRecordCmd.Flags().StringVar(&recordProduct.Category, "category", "", "product category")
	recentRecordCmd.Flags().StringSliceVar(&recordProduct.Images, "image", nil, "image URL (repeatable)")

	recentCmd.AddCommand(recentListCmd, recentRecordCmd)
	rootCmd.AddCommand(recentCmd)
}
