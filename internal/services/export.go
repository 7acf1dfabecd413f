package services

import (
	"beat-planning-service/internal/domain"
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

var (
	EnrolledHeaders    = []string{"id", "name", "contact", "start_lat", "start_lng", "starting_point"}
	AssignmentsHeaders = []string{"salesperson_id", "starting_point"}
)

// ExportRow maps a header to its cell value. Missing keys render empty.
type ExportRow map[string]string

// ToCSV renders rows under headers with standard CSV quoting: cells
// containing a comma, quote or newline are double-quoted.
func ToCSV(headers []string, rows []ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("to csv: write header: %w", err)
	}

	record := make([]string, len(headers))
	for i, r := range rows {
		for j, h := range headers {
			record[j] = r[h]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("to csv: write row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("to csv: flush: %w", err)
	}
	return buf.Bytes(), nil
}

// EnrolledCSV exports enrolled salespeople (enrolled.csv).
func EnrolledCSV(salespeople []domain.Salesperson) ([]byte, error) {
	rows := make([]ExportRow, 0, len(salespeople))
	for _, sp := range salespeople {
		rows = append(rows, ExportRow{
			"id":             sp.ID,
			"name":           sp.Name,
			"contact":        sp.Contact,
			"start_lat":      formatOptionalFloat(sp.StartLat),
			"start_lng":      formatOptionalFloat(sp.StartLng),
			"starting_point": sp.StartName,
		})
	}
	return ToCSV(EnrolledHeaders, rows)
}

// AssignmentsCSV exports the solver's assignments input (assignments.csv).
func AssignmentsCSV(salespeople []domain.Salesperson) ([]byte, error) {
	rows := make([]ExportRow, 0, len(salespeople))
	for _, sp := range salespeople {
		rows = append(rows, ExportRow{
			"salesperson_id": sp.ID,
			"starting_point": sp.StartName,
		})
	}
	return ToCSV(AssignmentsHeaders, rows)
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
