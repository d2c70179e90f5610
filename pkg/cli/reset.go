package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mchmarny/regrade/pkg/data"
	urfave "github.com/urfave/cli/v3"
)

var (
	yesFlag = &urfave.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Skip the confirmation prompt",
	}

	resetCmd = &urfave.Command{
		Name:   "reset",
		Usage:  "Delete the run history and start fresh",
		Flags:  []urfave.Flag{yesFlag},
		Action: cmdReset,
	}
)

func cmdReset(_ context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)
	w := writer(cmd)

	if !cmd.Bool(yesFlag.Name) {
		fmt.Fprintf(w, "This will permanently delete the run history in %s\n", cfg.DBPath)
		fmt.Fprint(w, "Are you sure? [y/N]: ")

		in := cmd.Root().Reader
		if in == nil {
			in = os.Stdin
		}
		reader := bufio.NewReader(in)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Fprintln(w, "Aborted.")
			return nil
		}
	}

	if data.IsPostgres(cfg.DBPath) {
		n, err := data.DeleteRuns(cfg.DB)
		if err != nil {
			return fmt.Errorf("deleting runs: %w", err)
		}
		slog.Info("runs deleted", "count", n)
		fmt.Fprintln(w, "Reset complete.")
		return nil
	}

	// close the DB before deleting the file
	if cfg.DB != nil {
		cfg.DB.Close()
		cfg.DB = nil
	}

	if err := os.Remove(cfg.DBPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting database: %w", err)
	}

	slog.Info("database deleted", "path", cfg.DBPath)

	// re-initialize empty database
	if err := data.Init(cfg.DBPath); err != nil {
		return fmt.Errorf("re-initializing database: %w", err)
	}

	slog.Info("database re-initialized", "path", cfg.DBPath)
	fmt.Fprintln(w, "Reset complete.")
	return nil
}
