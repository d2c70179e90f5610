package cli

import (
	"context"
	"fmt"

	"github.com/mchmarny/regrade/pkg/data"
	urfave "github.com/urfave/cli/v3"
)

const (
	historyLimitDefault = 20
)

var (
	historyLimitFlag = &urfave.IntFlag{
		Name:  "limit",
		Usage: "Limits number of runs returned",
		Value: historyLimitDefault,
	}

	runIDFlag = &urfave.Int64Flag{
		Name:     "id",
		Usage:    "Run ID",
		Required: true,
	}

	historyCmd = &urfave.Command{
		Name:    "history",
		Aliases: []string{"h"},
		Usage:   "List previous runs",
		Action:  cmdHistoryList,
		Flags: []urfave.Flag{
			historyLimitFlag,
		},
		Commands: []*urfave.Command{
			{
				Name:    "show",
				Aliases: []string{"s"},
				Usage:   "Show a single run with its flagged rows",
				Action:  cmdHistoryShow,
				Flags: []urfave.Flag{
					runIDFlag,
				},
			},
		},
	}
)

func cmdHistoryList(_ context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)

	list, err := data.ListRuns(cfg.DB, cmd.Int(historyLimitFlag.Name))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if err := encode(cmd, list); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func cmdHistoryShow(_ context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)
	id := cmd.Int64(runIDFlag.Name)

	r, err := data.GetRun(cfg.DB, id)
	if err != nil {
		return fmt.Errorf("failed to get run %d: %w", id, err)
	}
	if r == nil {
		return fmt.Errorf("run %d not found", id)
	}

	if err := encode(cmd, r); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}
