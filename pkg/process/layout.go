package process

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mchmarny/regrade/pkg/grade"
	"github.com/mchmarny/regrade/pkg/score"
	"github.com/mchmarny/regrade/pkg/table"
	"github.com/pkg/errors"
)

// Mode selects how a row supplies its anchor and target.
type Mode string

const (
	// ModeNumeric reads a numeric anchor and target from fixed columns.
	ModeNumeric Mode = "numeric"
	// ModeLetter decodes five letter grades; anchor and target are their mean.
	ModeLetter Mode = "letter"

	minSourceScore = 0
	maxSourceScore = 100
)

var (
	Modes = []string{string(ModeNumeric), string(ModeLetter)}

	errMissingColumn = errors.New("missing column")
	errNotNumeric    = errors.New("value is not numeric")
	errOutOfRange    = errors.New("value out of range")
)

// Layout maps table columns (zero based) to the values a row supplies.
type Layout struct {
	Mode         Mode  `json:"mode" yaml:"mode"`
	AnchorColumn int   `json:"anchorColumn" yaml:"anchorColumn"`
	TargetColumn int   `json:"targetColumn" yaml:"targetColumn"`
	ScoreColumns []int `json:"scoreColumns,omitempty" yaml:"scoreColumns,omitempty"`
}

// DefaultLayout reads the anchor from column C, the target from column H and
// the original scores (or letter grades) from columns C through G.
func DefaultLayout() Layout {
	return Layout{
		Mode:         ModeNumeric,
		AnchorColumn: 2,
		TargetColumn: 7,
		ScoreColumns: []int{2, 3, 4, 5, 6},
	}
}

// ParseMode converts s to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeNumeric, ModeLetter:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q, want one of [%s]", s, strings.Join(Modes, ", "))
	}
}

// Validate checks the layout is usable.
func (l Layout) Validate() error {
	if _, err := ParseMode(string(l.Mode)); err != nil {
		return err
	}
	if l.Mode == ModeLetter && len(l.ScoreColumns) != score.Size {
		return errors.Errorf("letter mode needs %d score columns, got %d", score.Size, len(l.ScoreColumns))
	}
	if l.Mode == ModeNumeric && (l.AnchorColumn < 0 || l.TargetColumn < 0) {
		return errors.Errorf("anchor (%d) and target (%d) columns must not be negative", l.AnchorColumn, l.TargetColumn)
	}
	for _, c := range l.ScoreColumns {
		if c < 0 {
			return errors.Errorf("score column %d must not be negative", c)
		}
	}
	return nil
}

// source is what a row contributes to a redistribution.
type source struct {
	anchor   float64
	target   float64
	original []float64
	unknown  []string
}

// extract reads the row's source values. width is the number of input
// columns, before any output columns were appended.
func (l Layout) extract(t *table.Table, row, width int) (*source, error) {
	if l.Mode == ModeLetter {
		return l.extractLetters(t, row, width)
	}
	return l.extractNumeric(t, row)
}

func (l Layout) extractNumeric(t *table.Table, row int) (*source, error) {
	anchor, err := numericCell(t, row, l.AnchorColumn)
	if err != nil {
		return nil, errors.Wrap(err, "anchor")
	}
	target, err := numericCell(t, row, l.TargetColumn)
	if err != nil {
		return nil, errors.Wrap(err, "target")
	}
	if !inSourceRange(anchor) || !inSourceRange(target) {
		return nil, errors.Wrapf(errOutOfRange, "anchor %g, target %g", anchor, target)
	}

	s := &source{anchor: anchor, target: target}
	for _, c := range l.ScoreColumns {
		v, err := numericCell(t, row, c)
		if err != nil {
			return nil, errors.Wrap(err, "original score")
		}
		s.original = append(s.original, v)
	}
	return s, nil
}

func (l Layout) extractLetters(t *table.Table, row, width int) (*source, error) {
	grades := make([]string, 0, len(l.ScoreColumns))
	var unknown []string
	for _, c := range l.ScoreColumns {
		if c >= width {
			return nil, errors.Wrapf(errMissingColumn, "grade column %d", c+1)
		}
		// trailing blank cells are trimmed on read, a short row is a blank grade
		v, _ := t.Cell(row, c)
		if !grade.IsKnown(v) {
			unknown = append(unknown, v)
		}
		grades = append(grades, v)
	}
	scores, mean := grade.DecodeAll(grades)
	return &source{
		anchor:   mean,
		target:   mean,
		original: scores,
		unknown:  unknown,
	}, nil
}

func numericCell(t *table.Table, row, col int) (float64, error) {
	v, ok := t.Cell(row, col)
	if !ok {
		return 0, errors.Wrapf(errMissingColumn, "column %d", col+1)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, errors.Wrapf(errNotNumeric, "column %d: %q", col+1, v)
	}
	return f, nil
}

func inSourceRange(v float64) bool {
	return v >= minSourceScore && v <= maxSourceScore
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
