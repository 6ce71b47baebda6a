package main

import (
	"strings"

	"github.com/cartwise/backend/internal/container"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match <query>",
	Short: "Match a shopping request to validated store products",
	Example: `  cartctl match --store store_42 "rice and dal for dinner"
  cartctl match -s store_42 breakfast for two`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMatch,
}

func runMatch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	return withContainer(cmd, func(c *container.Container) error {
		resp, err := c.Pipeline.Match(cmd.Context(), query, flagStore)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	})
}
