package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/udisondev/craftcore/internal/config"
	"github.com/udisondev/craftcore/internal/data"
)

const (
	ConfigPath = "config/craftcore.yaml"
	EnvConfig  = "CRAFTCORE_CONFIG"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// .env is optional; it may carry CRAFTCORE_CONFIG or CRAFTCORE_DATABASE_URL.
	_ = godotenv.Load()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

// app is the state shared by subcommands once the root has loaded config.
type app struct {
	configPath string
	cfg        config.Crafting
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "craftcheck",
		Short: "Check recipe definitions and resolve crafts against inventories",
		Long: `craftcheck loads the item, quality and recipe catalogs and works with them offline.

Examples:
  craftcheck validate
  craftcheck resolve --inventory camp.yaml
  craftcheck craft --inventory camp.yaml --recipe rope --actor 1
  craftcheck history --actor 1`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $"+EnvConfig+" or "+ConfigPath+")")

	root.AddCommand(newValidateCommand(a))
	root.AddCommand(newResolveCommand(a))
	root.AddCommand(newCraftCommand(a))
	root.AddCommand(newMigrateCommand(a))
	root.AddCommand(newHistoryCommand(a))
	return root
}

// load reads config and configures slog before any subcommand runs.
func (a *app) load() error {
	path := a.configPath
	if path == "" {
		path = ConfigPath
		if p := os.Getenv(EnvConfig); p != "" {
			path = p
		}
	}

	cfg, err := config.LoadCrafting(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	a.cfg = cfg

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Debug("config loaded", "path", path, "data_dir", cfg.DataDir, "journal", cfg.Journal.Enabled)
	return nil
}

func (a *app) catalogs(ctx context.Context) (*data.Catalogs, error) {
	c, err := data.Load(ctx, a.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("loading catalogs: %w", err)
	}
	return c, nil
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
