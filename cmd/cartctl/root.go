package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cartwise/backend/config"
	"github.com/cartwise/backend/internal/container"
	"github.com/spf13/cobra"
)

var (
	flagStore  string
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:   "cartctl",
	Short: "Turn shopping requests into store products",
	Long: "Runs the category proposal, product matching and relevance validation\n" +
		"pipeline against one store's catalog and prints the result as JSON.",
	Example: `  cartctl categories --store store_42
  cartctl match --store store_42 "paneer butter masala for 4"`,
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagStore, "store", "s", "", "store id (required)")
	pf.StringVarP(&flagConfig, "config", "c", "", "config file (default: ./config.yaml, ./config/config.yaml)")
	_ = rootCmd.MarkPersistentFlagRequired("store")

	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(categoriesCmd)
}

// withContainer loads configuration, builds the pipeline and runs fn
func withContainer(cmd *cobra.Command, fn func(*container.Container) error) error {
	cfg, err := config.LoadFile(flagConfig)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := container.ConfigureLogging(cfg.Log); err != nil {
		return err
	}

	c, err := container.New(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("initializing: %w", err)
	}
	defer c.Close()

	return fn(c)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
