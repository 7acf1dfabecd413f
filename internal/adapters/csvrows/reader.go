// Package csvrows turns uploaded beat-plan sheets into untyped rows keyed
// by their header names.
package csvrows

import (
	"beat-planning-service/internal/domain"
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read parses r according to the extension of filename: .xlsx is read
// from its first sheet, anything else as CSV.
func Read(filename string, r io.Reader) ([]domain.RawRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return ReadXLSX(r)
	case ".xls":
		return nil, fmt.Errorf("read %q: %w", filename, ErrUnsupportedFormat)
	default:
		return ReadCSV(r)
	}
}

// ReadCSV parses CSV text with a mandatory header row. Empty lines are
// skipped and rows may be shorter or longer than the header.
func ReadCSV(r io.Reader) ([]domain.RawRow, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return toRows(records), nil
}

// ReadXLSX parses the first sheet of a workbook; its first row is the header.
func ReadXLSX(r io.Reader) ([]domain.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx: sheet %q: %w", sheets[0], err)
	}
	return toRows(records), nil
}

func toRows(records [][]string) []domain.RawRow {
	// Blank spreadsheet lines come through as empty records.
	records = dropBlank(records)
	if len(records) == 0 {
		return nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]domain.RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(domain.RawRow, len(header))
		for i, h := range header {
			if h == "" || i >= len(rec) {
				continue
			}
			row[h] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows
}

func dropBlank(records [][]string) [][]string {
	out := records[:0]
	for _, rec := range records {
		blank := true
		for _, cell := range rec {
			if cell != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, rec)
		}
	}
	return out
}
