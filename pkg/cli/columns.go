package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// parseColumn converts a spreadsheet column ("C") or a one based column
// number ("3") to a zero based index.
func parseColumn(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty column")
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 {
			return 0, fmt.Errorf("column number must be at least 1, got %d", n)
		}
		return n - 1, nil
	}
	n, err := excelize.ColumnNameToNumber(s)
	if err != nil {
		return 0, fmt.Errorf("invalid column %q: %w", s, err)
	}
	return n - 1, nil
}

// parseColumns accepts a range ("C:G") or a comma separated list ("C,D,E").
func parseColumns(s string) ([]int, error) {
	if from, to, ok := strings.Cut(s, ":"); ok {
		a, err := parseColumn(from)
		if err != nil {
			return nil, err
		}
		b, err := parseColumn(to)
		if err != nil {
			return nil, err
		}
		if b < a {
			return nil, fmt.Errorf("invalid column range %q", s)
		}
		cols := make([]int, 0, b-a+1)
		for i := a; i <= b; i++ {
			cols = append(cols, i)
		}
		return cols, nil
	}

	var cols []int
	for _, p := range strings.Split(s, ",") {
		c, err := parseColumn(p)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, nil
}
