package process

import (
	"github.com/mchmarny/regrade/pkg/score"
	"github.com/mchmarny/regrade/pkg/table"
	"github.com/pkg/errors"
)

// Verify runs the diagnostic pass over a table that already carries the
// output columns, such as a file written by Run. Rows whose source values
// or adjusted scores cannot be read are left out.
func Verify(t *table.Table, l Layout, c score.Constraints) ([]score.Flag, int, error) {
	if t == nil {
		return nil, 0, errors.New("table required")
	}
	if err := l.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "invalid layout")
	}

	cols := make([]int, score.Size)
	for i := range cols {
		if cols[i] = t.ColumnIndex(OutputColumns[i]); cols[i] < 0 {
			return nil, 0, errors.Errorf("column %q not found", OutputColumns[i])
		}
	}

	entries := make([]score.Entry, 0, t.Len())
	for i := range t.Rows {
		src, err := l.extract(t, i, len(t.Header))
		if err != nil {
			continue
		}
		var s score.ScoreSet
		ok := true
		for j, col := range cols {
			v, err := numericCell(t, i, col)
			if err != nil {
				ok = false
				break
			}
			s[j] = v
		}
		if !ok {
			continue
		}
		entries = append(entries, score.Entry{Row: i + 1, Anchor: src.anchor, Target: src.target, Scores: s})
	}

	return score.Diagnose(entries, c), len(entries), nil
}
