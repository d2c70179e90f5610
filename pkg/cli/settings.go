package cli

import (
	"fmt"
	"strings"

	"github.com/mchmarny/regrade/pkg/config"
	"github.com/mchmarny/regrade/pkg/process"
	"github.com/mchmarny/regrade/pkg/score"
	urfave "github.com/urfave/cli/v3"
)

var (
	strategyFlag = &urfave.StringFlag{
		Name:    "strategy",
		Aliases: []string{"s"},
		Usage:   fmt.Sprintf("Redistribution strategy [%s] (default: from config)", strings.Join(score.StrategyNames, ", ")),
	}

	exhaustiveFlag = &urfave.BoolFlag{
		Name:  "exhaustive",
		Usage: "Pattern strategy tries every deviation pattern before falling back",
	}

	modeFlag = &urfave.StringFlag{
		Name:  "mode",
		Usage: fmt.Sprintf("Row mode [%s] (default: from config)", strings.Join(process.Modes, ", ")),
	}

	anchorColumnFlag = &urfave.StringFlag{
		Name:  "anchor",
		Usage: "Anchor score column, letter or number (default: C)",
	}

	targetColumnFlag = &urfave.StringFlag{
		Name:  "target",
		Usage: "Target average column, letter or number (default: H)",
	}

	scoreColumnsFlag = &urfave.StringFlag{
		Name:  "scores",
		Usage: "Original score or letter grade columns, range or list (default: C:G)",
	}

	layoutFlags = []urfave.Flag{
		strategyFlag,
		modeFlag,
		anchorColumnFlag,
		targetColumnFlag,
		scoreColumnsFlag,
	}
)

// settings are the config file values with command line overrides applied.
type settings struct {
	Strategy   string
	Exhaustive bool
	Seed       int64
	Suffix     string
	Parallel   int
	Layout     process.Layout
}

func resolveSettings(cmd *urfave.Command, base *config.Config) (*settings, error) {
	if base == nil {
		base = config.Default()
	}

	s := &settings{
		Strategy:   base.Strategy,
		Exhaustive: base.Exhaustive,
		Seed:       base.Seed,
		Suffix:     base.Suffix,
		Parallel:   base.Parallel,
		Layout:     base.Layout,
	}
	s.Layout.ScoreColumns = append([]int(nil), base.Layout.ScoreColumns...)

	if cmd.IsSet(strategyFlag.Name) {
		s.Strategy = cmd.String(strategyFlag.Name)
	}
	if cmd.IsSet(exhaustiveFlag.Name) {
		s.Exhaustive = cmd.Bool(exhaustiveFlag.Name)
	}
	if cmd.IsSet(seedFlag.Name) {
		s.Seed = cmd.Int64(seedFlag.Name)
	}
	if cmd.IsSet(suffixFlag.Name) {
		s.Suffix = cmd.String(suffixFlag.Name)
	}
	if cmd.IsSet(parallelFlag.Name) {
		s.Parallel = cmd.Int(parallelFlag.Name)
	}

	if cmd.IsSet(modeFlag.Name) {
		m, err := process.ParseMode(cmd.String(modeFlag.Name))
		if err != nil {
			return nil, err
		}
		s.Layout.Mode = m
	}
	if cmd.IsSet(anchorColumnFlag.Name) {
		c, err := parseColumn(cmd.String(anchorColumnFlag.Name))
		if err != nil {
			return nil, fmt.Errorf("anchor column: %w", err)
		}
		s.Layout.AnchorColumn = c
	}
	if cmd.IsSet(targetColumnFlag.Name) {
		c, err := parseColumn(cmd.String(targetColumnFlag.Name))
		if err != nil {
			return nil, fmt.Errorf("target column: %w", err)
		}
		s.Layout.TargetColumn = c
	}
	if cmd.IsSet(scoreColumnsFlag.Name) {
		cols, err := parseColumns(cmd.String(scoreColumnsFlag.Name))
		if err != nil {
			return nil, fmt.Errorf("score columns: %w", err)
		}
		s.Layout.ScoreColumns = cols
	}

	if s.Parallel < 1 {
		s.Parallel = config.ParallelDefault
	}
	if err := s.Layout.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
