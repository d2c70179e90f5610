package table

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/pkg/errors"
)

func readCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening file: %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	t := &Table{}
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "error parsing csv: %s", path)
		}
		if first {
			t.Header = rec
			first = false
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func writeCSV(path string, t *Table) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return errors.Wrapf(err, "error creating file: %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "error closing file: %s", path)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return errors.Wrap(err, "error writing header")
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return errors.Wrapf(err, "error writing rows to %s", path)
	}
	return nil
}
