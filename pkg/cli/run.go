package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mchmarny/regrade/pkg/config"
	"github.com/mchmarny/regrade/pkg/data"
	"github.com/mchmarny/regrade/pkg/process"
	"github.com/mchmarny/regrade/pkg/random"
	"github.com/mchmarny/regrade/pkg/score"
	"github.com/mchmarny/regrade/pkg/table"
	urfave "github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

var (
	seedFlag = &urfave.Int64Flag{
		Name:  "seed",
		Usage: "Random seed; runs with the same seed and inputs are identical (default: random)",
	}

	suffixFlag = &urfave.StringFlag{
		Name:  "suffix",
		Usage: fmt.Sprintf("Suffix added to the input file name to form the output (default: %s)", table.DefaultSuffix),
	}

	parallelFlag = &urfave.IntFlag{
		Name:  "parallel",
		Usage: fmt.Sprintf("Number of files processed at once; rows within a file are always sequential (default: %d)", config.ParallelDefault),
	}

	noHistoryFlag = &urfave.BoolFlag{
		Name:  "no-history",
		Usage: "Do not save the run to the history database",
	}

	runCmd = &urfave.Command{
		Name:      "run",
		Aliases:   []string{"r"},
		Usage:     "Redistribute the scores of one or more spreadsheet (.xlsx) or csv files",
		ArgsUsage: "FILE...",
		UsageText: `regrade run class2.xlsx                                  # anchor in C, target in H
   regrade run --strategy random --seed 42 class2.xlsx class3.xlsx
   regrade run --mode letter --scores C:G class3.xlsx       # letter grades in C..G`,
		Action: cmdRun,
		Flags: append([]urfave.Flag{
			exhaustiveFlag,
			seedFlag,
			suffixFlag,
			parallelFlag,
			noHistoryFlag,
		}, layoutFlags...),
	}
)

type RunResult struct {
	Files    []*process.Report `json:"files" yaml:"files"`
	Saved    []int64           `json:"saved,omitempty" yaml:"saved,omitempty"`
	Duration string            `json:"duration" yaml:"duration"`
}

func cmdRun(ctx context.Context, cmd *urfave.Command) error {
	start := time.Now()
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return urfave.ShowSubcommandHelp(cmd)
	}

	cfg := getConfig(cmd)
	s, err := resolveSettings(cmd, cfg.Settings)
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	// validate the strategy once before any file is touched
	if _, err := score.StrategyByName(s.Strategy, random.New(1), s.Exhaustive); err != nil {
		return err
	}

	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		slog.Debug("generated seed", "seed", seed)
	}

	reports := make([]*process.Report, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Parallel)
	for i, f := range files {
		g.Go(func() error {
			strategy, err := score.StrategyByName(s.Strategy, random.Derive(seed, uint64(i)), s.Exhaustive)
			if err != nil {
				return err
			}

			rep, err := process.Run(gctx, process.Job{
				Input:         f,
				Suffix:        s.Suffix,
				Seed:          seed,
				Layout:        s.Layout,
				Redistributor: score.NewRedistributor(strategy),
			})
			reports[i] = rep
			if err != nil {
				return fmt.Errorf("processing %s: %w", filepath.Base(f), err)
			}
			return nil
		})
	}
	runErr := g.Wait()

	res := &RunResult{Files: make([]*process.Report, 0, len(reports))}
	for _, rep := range reports {
		if rep == nil {
			continue
		}
		res.Files = append(res.Files, rep)
		if rep.Output == "" || cmd.Bool(noHistoryFlag.Name) {
			continue
		}
		id, err := data.SaveRun(cfg.DB, toRun(rep))
		if err != nil {
			slog.Error("failed to save run", "input", rep.Input, "error", err)
			continue
		}
		res.Saved = append(res.Saved, id)
	}
	res.Duration = since(start)

	if err := encode(cmd, res); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}

	return runErr
}

func toRun(rep *process.Report) *data.Run {
	r := &data.Run{
		Input:      rep.Input,
		Output:     rep.Output,
		Strategy:   rep.Strategy,
		Mode:       string(rep.Mode),
		Seed:       rep.Seed,
		Total:      rep.Total,
		Processed:  rep.Processed,
		Skipped:    rep.Skipped,
		Satisfied:  rep.Satisfied,
		FallenBack: rep.FallenBack,
		Duration:   rep.Duration,
	}
	for _, f := range rep.Flags {
		r.Flags = append(r.Flags, &data.RunFlag{
			Row:    f.Row,
			Kind:   string(f.Kind),
			Detail: f.Detail,
			Anchor: f.Anchor,
			Target: f.Target,
			Mean:   f.Mean,
			Scores: f.Scores.String(),
		})
	}
	return r
}
