package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LoadOptions controls how a table file is read.
type LoadOptions struct {
	// Delimiter for CSV. If 0, chosen from the file extension.
	Delimiter rune
	// XLSX sheet selection. SheetName wins over SheetIndex (1-based).
	SheetName  string
	SheetIndex int
}

// Table is a raw row/column grid with a header row.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Load reads a CSV, TSV or XLSX file into a Table.
func Load(path string, opt LoadOptions) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return ReadXLSX(path, opt.SheetName, opt.SheetIndex)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &InputFormatError{Path: path, Reason: "open csv", Err: err}
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	t, err := ReadCSV(f, filepath.Base(path), delim)
	if err != nil {
		var ife *InputFormatError
		if errors.As(err, &ife) {
			ife.Path = path
		}
		return nil, err
	}
	return t, nil
}

// ReadCSV parses delimited text. The first record is the header.
func ReadCSV(r io.Reader, name string, delim rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if delim != 0 {
		cr.Comma = delim
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &InputFormatError{Path: name, Reason: "empty table"}
		}
		return nil, &InputFormatError{Path: name, Reason: "read header", Err: err}
	}
	t := &Table{Name: name, Header: append([]string(nil), header...)}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &InputFormatError{Path: name, Reason: fmt.Sprintf("read row %d", len(t.Rows)+1), Err: err}
		}
		t.Rows = append(t.Rows, fitRow(rec, len(header)))
	}
	return t, nil
}

// fitRow pads short records and truncates long ones to the header width.
func fitRow(rec []string, ncol int) []string {
	row := make([]string, ncol)
	copy(row, rec)
	return row
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
