package services

import (
	"beat-planning-service/internal/domain"
	"beat-planning-service/internal/ports"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrNoData reports that an upload parsed to zero rows, as opposed to rows
// that simply produced no stops.
var ErrNoData = errors.New("no data")

const unknownGroupKey = "Unknown"

// Outcome of grouping a beat-plan upload.
type GroupResult struct {
	Routes []domain.Route
	// Rows discarded because lat or lng did not parse to a finite number.
	DroppedRows int
}

// GroupRows turns parsed beat-plan rows into one Route per salesperson.
//
// Rows are grouped by salespersonId, else salesperson name, else "Unknown",
// in order of first appearance. Stops keep their input order for equal
// sequence numbers. Metrics are only estimated for routes with stops.
func GroupRows(rows []domain.RawRow, estimator ports.MetricEstimator) (GroupResult, error) {
	if len(rows) == 0 {
		return GroupResult{}, ErrNoData
	}
	if estimator == nil {
		return GroupResult{}, errors.New("group rows: estimator is nil")
	}

	keys := make([]string, 0)
	groups := make(map[string][]domain.RawRow)
	for _, r := range rows {
		key := firstNonEmpty(stringField(r, "salespersonId"), stringField(r, "salesperson"), unknownGroupKey)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], r)
	}

	res := GroupResult{Routes: make([]domain.Route, 0, len(keys))}
	for idx, key := range keys {
		list := groups[key]

		name := firstFieldIn(list, "salesperson")
		if name == "" {
			name = fmt.Sprintf("Salesperson %d", idx+1)
		}

		spID := firstFieldIn(list, "salespersonId")
		if spID == "" {
			spID = key
		}

		stops := make([]domain.Stop, 0, len(list))
		for _, r := range list {
			lat, okLat := floatField(r, "lat")
			lng, okLng := floatField(r, "lng")
			if !okLat || !okLng {
				res.DroppedRows++
				continue
			}

			stop := domain.Stop{
				Lat:   lat,
				Lng:   lng,
				Label: firstNonEmpty(stringField(r, "label"), stringField(r, "stop_name")),
			}
			if seq, ok := intField(r, "sequence"); ok {
				stop.Sequence = domain.Ptr(seq)
			}
			stops = append(stops, stop)
		}

		sort.SliceStable(stops, func(i, j int) bool {
			return stops[i].SequenceOrZero() < stops[j].SequenceOrZero()
		})

		route := domain.Route{
			ID:              fmt.Sprintf("route_%s_%d", key, idx),
			SalespersonID:   spID,
			SalespersonName: name,
			Color:           domain.ColorFor(idx),
			Stops:           stops,
		}
		if len(stops) > 0 {
			m := estimator.Estimate(stops)
			route.Metrics = &m
		}

		res.Routes = append(res.Routes, route)
	}

	return res, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Return the first non-empty value of field across rows.
func firstFieldIn(rows []domain.RawRow, field string) string {
	for _, r := range rows {
		if v := stringField(r, field); v != "" {
			return v
		}
	}
	return ""
}

func stringField(r domain.RawRow, field string) string {
	switch v := r[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Parse a coordinate from string or numeric input; only finite values count.
func floatField(r domain.RawRow, field string) (float64, bool) {
	var f float64
	switch v := r[field].(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Parse an optional integer. Strings use their leading integer ("3.7" is 3),
// fractional numbers truncate toward zero.
func intField(r domain.RawRow, field string) (int, bool) {
	switch v := r[field].(type) {
	case string:
		return leadingInt(strings.TrimSpace(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
