package main

import (
	"fmt"
	"os"

	"github.com/ivanoskov/warehouse/internal/app"
	"github.com/ivanoskov/warehouse/internal/config"
	"github.com/ivanoskov/warehouse/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli хранит флаги и собранное приложение одного запуска
type cli struct {
	configPath string
	verbose    bool

	logger *zap.Logger
	app    *app.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "warehouse",
		Short: "Inventory of products grouped by category",
		Long: `warehouse reads products and categories from the configured store,
shows them joined by category name, adds and deletes products and exports
the current record set as CSV or XLSX.

Configuration comes from .env, an optional YAML file and the environment.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.teardown()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", os.Getenv("WAREHOUSE_CONFIG"), "path to YAML config")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		c.serveCmd(),
		c.productsCmd(),
		c.categoriesCmd(),
		c.addCmd(),
		c.deleteCmd(),
		c.exportCmd(),
		c.chartCmd(),
	)
	return rootCmd
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.logger, err = logging.New(cfg.Debug)
	if err != nil {
		return err
	}

	c.app, err = app.New(cmd.Context(), cfg, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return nil
}

func (c *cli) teardown() {
	if c.app != nil {
		if err := c.app.Close(); err != nil {
			c.logger.Warn("failed to close connections", zap.Error(err))
		}
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
