package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mchmarny/regrade/pkg/config"
	"github.com/mchmarny/regrade/pkg/data"
	"github.com/mchmarny/regrade/pkg/logging"
	urfave "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "regrade"
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	logLevel = &slog.LevelVar{}

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	dbFilePathFlag = &urfave.StringFlag{
		Name:  "db",
		Usage: "Path to the sqlite run history file or a postgres:// DSN (default: $HOME/.regrade/data.db)",
	}

	configFlag = &urfave.StringFlag{
		Name:  "config",
		Usage: "Path to the config file (default: $HOME/.regrade/config.yaml)",
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	initLogging(false)

	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	DBPath   string
	Debug    bool
	Format   string
	DB       *sql.DB
	Settings *config.Config
}

func getConfig(cmd *urfave.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.Command {
	return &urfave.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "Redistribute recorded scores into five sub-scores that keep their average",
		Metadata:              map[string]any{},
		Flags: []urfave.Flag{
			debugFlag,
			dbFilePathFlag,
			configFlag,
			formatFlag,
		},
		Commands: []*urfave.Command{
			runCmd,
			checkCmd,
			historyCmd,
			resetCmd,
		},
		Before: func(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
			debug := cmd.Bool(debugFlag.Name)
			initLogging(debug)

			format := formatJSON
			if f := cmd.String(formatFlag.Name); f == formatYAML || f == "yml" {
				format = formatYAML
			}

			settings, err := loadSettings(cmd.String(configFlag.Name))
			if err != nil {
				return ctx, fmt.Errorf("loading config: %w", err)
			}

			dbPath := cmd.String(dbFilePathFlag.Name)
			if dbPath == "" {
				dbPath = settings.DB
			}
			if dbPath == "" {
				dir, _, err := config.GetOrCreateHomeDir(appName)
				if err != nil {
					return ctx, fmt.Errorf("resolving home dir: %w", err)
				}
				dbPath = filepath.Join(dir, data.DataFileName)
			}

			if err := data.Init(dbPath); err != nil {
				return ctx, fmt.Errorf("initializing database: %w", err)
			}

			db, err := data.GetDB(dbPath)
			if err != nil {
				return ctx, fmt.Errorf("opening database: %w", err)
			}

			cmd.Root().Metadata[appConfigKey] = &appConfig{
				DBPath:   dbPath,
				Debug:    debug,
				Format:   format,
				DB:       db,
				Settings: settings,
			}
			return ctx, nil
		},
		After: func(_ context.Context, cmd *urfave.Command) error {
			if cfg, ok := cmd.Root().Metadata[appConfigKey].(*appConfig); ok && cfg.DB != nil {
				cfg.DB.Close()
			}
			return nil
		},
	}
}

func loadSettings(path string) (*config.Config, error) {
	if path != "" {
		return config.Read(path)
	}
	dir, _, err := config.GetOrCreateHomeDir(appName)
	if err != nil {
		return nil, err
	}
	return config.ReadOrCreate(dir)
}

func initLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logLevel.Set(level)
	slog.SetDefault(slog.New(logging.NewCLIHandler(os.Stderr, logLevel)))
}

func writer(cmd *urfave.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func encode(cmd *urfave.Command, v any) error {
	w := writer(cmd)
	if cfg, ok := cmd.Root().Metadata[appConfigKey].(*appConfig); ok && cfg.Format == formatYAML {
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}

func since(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
