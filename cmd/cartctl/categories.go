package main

import (
	"github.com/cartwise/backend/internal/container"
	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Short:   "List the categories of a store",
	Example: `  cartctl categories --store store_42`,
	Args:    cobra.NoArgs,
	RunE:    runCategories,
}

func runCategories(cmd *cobra.Command, _ []string) error {
	return withContainer(cmd, func(c *container.Container) error {
		categories, err := c.Pipeline.Categories(cmd.Context(), flagStore)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), categories)
	})
}
