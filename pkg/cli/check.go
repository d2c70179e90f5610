package cli

import (
	"context"
	"fmt"

	"github.com/mchmarny/regrade/pkg/process"
	"github.com/mchmarny/regrade/pkg/random"
	"github.com/mchmarny/regrade/pkg/score"
	"github.com/mchmarny/regrade/pkg/table"
	urfave "github.com/urfave/cli/v3"
)

var (
	strictFlag = &urfave.BoolFlag{
		Name:  "strict",
		Usage: "Exit with an error when any row is flagged",
	}

	checkCmd = &urfave.Command{
		Name:      "check",
		Aliases:   []string{"c"},
		Usage:     "Re-run the average and deviation checks over an already adjusted file",
		ArgsUsage: "FILE",
		Action:    cmdCheck,
		Flags:     append([]urfave.Flag{strictFlag}, layoutFlags...),
	}
)

type CheckResult struct {
	File    string       `json:"file" yaml:"file"`
	Checked int          `json:"checked" yaml:"checked"`
	Passed  bool         `json:"passed" yaml:"passed"`
	Flags   []score.Flag `json:"flags,omitempty" yaml:"flags,omitempty"`
}

func cmdCheck(_ context.Context, cmd *urfave.Command) error {
	if cmd.NArg() != 1 {
		return urfave.ShowSubcommandHelp(cmd)
	}
	path := cmd.Args().First()

	s, err := resolveSettings(cmd, getConfig(cmd).Settings)
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	strategy, err := score.StrategyByName(s.Strategy, random.New(1), false)
	if err != nil {
		return err
	}

	t, err := table.Read(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	flags, checked, err := process.Verify(t, s.Layout, strategy.Constraints())
	if err != nil {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	res := &CheckResult{
		File:    path,
		Checked: checked,
		Passed:  len(flags) == 0,
		Flags:   flags,
	}
	if err := encode(cmd, res); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}

	if cmd.Bool(strictFlag.Name) && !res.Passed {
		return fmt.Errorf("%d rows flagged in %s", len(flags), path)
	}
	return nil
}
