package table

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening spreadsheet: %s", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Errorf("spreadsheet has no sheets: %s", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "error reading sheet %s in %s", sheets[0], path)
	}

	t := &Table{Sheet: sheets[0]}
	if len(rows) == 0 {
		return t, nil
	}
	t.Header = rows[0]
	t.Rows = rows[1:]
	return t, nil
}

func writeXLSX(path string, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Sheet
	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return errors.Wrapf(err, "error naming sheet %s", sheet)
		}
	}

	header := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "error writing header")
	}

	for i, r := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrapf(err, "error resolving cell for row %d", i+1)
		}
		vals := make([]interface{}, len(r))
		for j, v := range r {
			vals[j] = cellValue(v)
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return errors.Wrapf(err, "error writing row %d", i+1)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "error saving spreadsheet: %s", path)
	}
	return nil
}

// cellValue keeps numbers numeric in the spreadsheet. Values with a leading
// zero (ids, codes) stay text.
func cellValue(v string) interface{} {
	s := strings.TrimSpace(v)
	if s == "" {
		return v
	}
	if len(s) > 1 && s[0] == '0' && s[1] != '.' {
		return v
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return v
	}
	return n
}
