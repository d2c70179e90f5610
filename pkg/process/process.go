// Package process applies a score redistribution to every row of a table
// and collects the per-row results into a batch report.
package process

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/mchmarny/regrade/pkg/score"
	"github.com/mchmarny/regrade/pkg/table"
	"github.com/pkg/errors"
)

const (
	progressEvery = 5

	columnAverage = "Average"
)

// OutputColumns are the columns appended to every processed table.
var OutputColumns = []string{"Adjusted 1", "Adjusted 2", "Adjusted 3", "Adjusted 4", "Adjusted 5", columnAverage}

// RowStatus tells processed rows from skipped ones.
type RowStatus string

const (
	RowOK      RowStatus = "ok"
	RowSkipped RowStatus = "skipped"
)

// RowResult is what happened to a single row. Row numbers are one based and
// do not count the header.
type RowResult struct {
	Row     int            `json:"row" yaml:"row"`
	Status  RowStatus      `json:"status" yaml:"status"`
	Reason  string         `json:"reason,omitempty" yaml:"reason,omitempty"`
	Anchor  float64        `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	Target  float64        `json:"target,omitempty" yaml:"target,omitempty"`
	Outcome *score.Outcome `json:"outcome,omitempty" yaml:"outcome,omitempty"`
}

// Report summarizes a processed table.
type Report struct {
	Input      string       `json:"input,omitempty" yaml:"input,omitempty"`
	Output     string       `json:"output,omitempty" yaml:"output,omitempty"`
	Strategy   string       `json:"strategy" yaml:"strategy"`
	Mode       Mode         `json:"mode" yaml:"mode"`
	Seed       int64        `json:"seed,omitempty" yaml:"seed,omitempty"`
	Total      int          `json:"total" yaml:"total"`
	Processed  int          `json:"processed" yaml:"processed"`
	Skipped    int          `json:"skipped" yaml:"skipped"`
	Satisfied  int          `json:"satisfied" yaml:"satisfied"`
	FallenBack int          `json:"fallback" yaml:"fallback"`
	Skips      []RowResult  `json:"skips,omitempty" yaml:"skips,omitempty"`
	Flags      []score.Flag `json:"flags,omitempty" yaml:"flags,omitempty"`
	Duration   string       `json:"duration,omitempty" yaml:"duration,omitempty"`

	Rows []RowResult `json:"-" yaml:"-"`
}

// Passed reports whether every processed row cleared the diagnostic pass.
func (r *Report) Passed() bool {
	return len(r.Flags) == 0
}

func (r *Report) add(res RowResult) {
	r.Rows = append(r.Rows, res)
	if res.Status == RowSkipped {
		r.Skipped++
		r.Skips = append(r.Skips, res)
		return
	}
	r.Processed++
	if res.Outcome.OK() {
		r.Satisfied++
	} else {
		r.FallenBack++
	}
}

// Process redistributes every row of t in order, appending the output
// columns in place. A row that cannot be read is skipped and recorded; it
// never stops the batch. The returned error is non-nil only when ctx is done.
func Process(ctx context.Context, t *table.Table, l Layout, r *score.Redistributor) (*Report, error) {
	if t == nil {
		return nil, errors.New("table required")
	}
	if r == nil {
		return nil, errors.New("redistributor required")
	}
	if err := l.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid layout")
	}

	c := r.Strategy().Constraints()
	rep := &Report{
		Strategy: r.Strategy().Name(),
		Mode:     l.Mode,
		Total:    t.Len(),
	}

	width := len(t.Header)
	start := t.AddColumns(OutputColumns...)
	entries := make([]score.Entry, 0, t.Len())

	for i := range t.Rows {
		if err := ctx.Err(); err != nil {
			return rep, errors.Wrapf(err, "stopped at row %d", i+1)
		}

		res := processRow(t, i, width, l, r, c)
		rep.add(res)

		if res.Status == RowOK {
			writeScores(t, i, start, res.Outcome.Scores)
			entries = append(entries, score.Entry{
				Row:    res.Row,
				Anchor: res.Anchor,
				Target: res.Target,
				Scores: res.Outcome.Scores,
			})
		} else {
			writeScores(t, i, start, score.ScoreSet{})
		}

		if (i+1)%progressEvery == 0 || i == t.Len()-1 {
			slog.Info("processed rows", "done", i+1, "total", t.Len(),
				"pct", math.Round(float64(i+1)/float64(t.Len())*1000)/10)
		}
	}

	rep.Flags = score.Diagnose(entries, c)
	for _, f := range rep.Flags {
		slog.Warn("row flagged", "row", f.Row, "kind", f.Kind, "detail", f.Detail)
	}

	return rep, nil
}

func processRow(t *table.Table, i, width int, l Layout, r *score.Redistributor, c score.Constraints) RowResult {
	res := RowResult{Row: i + 1}

	src, err := l.extract(t, i, width)
	if err != nil {
		res.Status = RowSkipped
		res.Reason = err.Error()
		slog.Warn("skipping row", "row", res.Row, "error", err)
		return res
	}
	if len(src.unknown) > 0 {
		slog.Warn("unknown grades scored as zero", "row", res.Row, "grades", src.unknown)
	}

	o := r.Distribute(src.anchor, src.target, src.original)
	res.Status = RowOK
	res.Anchor = src.anchor
	res.Target = src.target
	res.Outcome = &o

	if !o.OK() {
		slog.Debug("fallback", "row", res.Row, "reason", o.Reason)
	}
	for _, v := range o.Scores {
		if !c.WithinDeviation(v, src.anchor) {
			slog.Warn("adjustment exceeds deviation bound", "row", res.Row,
				"anchor", src.anchor, "scores", o.Scores.String(), "bound", c.MaxDeviation)
			break
		}
	}
	return res
}

func writeScores(t *table.Table, row, start int, s score.ScoreSet) {
	for j, v := range s {
		t.Set(row, start+j, formatScore(v))
	}
	t.Set(row, start+score.Size, formatScore(score.RoundedMean(s)))
}

// Job describes one input file to process.
type Job struct {
	Input         string
	Output        string
	Suffix        string
	Seed          int64
	Layout        Layout
	Redistributor *score.Redistributor
}

// Run reads the job's input, processes it and writes the output file next
// to the input. Read and write failures are returned; the report is still
// returned when only the write fails.
func Run(ctx context.Context, j Job) (*Report, error) {
	start := time.Now()

	out := j.Output
	if out == "" {
		out = table.OutputPath(j.Input, j.Suffix)
	}

	slog.Info("reading file", "path", j.Input)
	t, err := table.Read(j.Input)
	if err != nil {
		return nil, errors.Wrap(err, "error reading input")
	}
	slog.Info("file read", "path", j.Input, "rows", t.Len(), "columns", len(t.Header))

	rep, err := Process(ctx, t, j.Layout, j.Redistributor)
	if err != nil {
		return rep, err
	}
	rep.Input = j.Input
	rep.Seed = j.Seed

	if err := table.Write(out, t); err != nil {
		rep.Duration = time.Since(start).String()
		return rep, errors.Wrap(err, "error writing output")
	}
	rep.Output = out
	rep.Duration = time.Since(start).String()

	slog.Info("file written", "path", out, "processed", rep.Processed, "skipped", rep.Skipped,
		"fallback", rep.FallenBack, "flags", len(rep.Flags))
	return rep, nil
}
