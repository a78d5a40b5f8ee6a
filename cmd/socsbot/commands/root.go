package commands

import (
	"context"
	"fmt"
	"os"

	"socsbot/internal/components/chrono"
	"socsbot/internal/components/serviceutil"
	"socsbot/internal/components/telemetry"
	"socsbot/internal/config"
	"socsbot/internal/poller"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var configPath *string

var rootCmd = &cobra.Command{
	Use:   "socsbot",
	Short: "socsbot watches the SOCS competition list and posts it to telegram when it changes.",
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "socsbot.yaml", "The config file (.yaml, .yml, .json or .json5).")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config and sets up logging, a broken config is fatal. The
// one-off commands only need part of the config so validation is optional.
func loadConfig(validate bool) config.Config {
	load := config.Read
	if validate {
		load = config.Load
	}
	cfg, err := load(*configPath)
	if err != nil {
		telemetry.InitSlog(telemetry.ParseLevel("info"))
		serviceutil.Fatal("failed to load config", err)
	}
	telemetry.InitSlog(telemetry.ParseLevel(cfg.LogLevel))
	return cfg
}

func windowFromConfig(cfg config.Config) poller.Window {
	return poller.Window{
		Location: chrono.FixedOffset(*cfg.Window.UtcOffsetHours),
		Hour:     *cfg.Window.Hour,
		Minutes:  cfg.Window.Minutes,
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
