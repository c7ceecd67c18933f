package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/yungbote/skugen-backend/internal/app"
	"github.com/yungbote/skugen-backend/internal/config"
	"github.com/yungbote/skugen-backend/internal/platform/logger"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

type cli struct {
	configPath string
	logMode    string
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "skuctl",
		Short: "Generate and manage SKU codes",
		Long: fmt.Sprintf(`%s

Builds SKU codes from a product name, optional year, free-text attributes
and a list of sizes, and keeps them in the same store the server uses.

%s
  skuctl generate --product "Fall Winter" --year 2024 --attr collection= --attr material=Denim --size M
  skuctl generate --product "Summer" --attr collection="Basic Tee" --size S --rule rule2
  skuctl list
  skuctl export --format xlsx --out skus.xlsx
  skuctl theme dark`, bold("skuctl"), bold("EXAMPLES:")),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to config YAML (default $SKUGEN_CONFIG_PATH or config/config.yaml)")
	root.PersistentFlags().StringVar(&c.logMode, "log-mode", "test", "Logger mode: test (quiet), development or production")

	root.AddCommand(
		newGenerateCommand(c),
		newListCommand(c),
		newDeleteCommand(c),
		newClearCommand(c),
		newExportCommand(c),
		newThemeCommand(c),
		newOptionsCommand(c),
	)
	return root
}

// open wires the services over the configured store. Metrics are disabled
// since nothing scrapes a one-shot process.
func (c *cli) open(ctx context.Context) (*app.App, error) {
	cfg, _, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	cfg.LogMode = c.logMode
	cfg.Telemetry.MetricsEnabled = false

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return app.NewWithLogger(ctx, cfg, log)
}

// withApp runs fn against a freshly opened app and closes it afterwards.
func (c *cli) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
