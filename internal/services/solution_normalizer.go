package services

import (
	"beat-planning-service/internal/domain"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// An extraction rule: a pure lookup that reports whether it matched.
type extractor func(gjson.Result) (gjson.Result, bool)

// valueAt matches when path holds any value other than null.
func valueAt(path string) extractor {
	return func(r gjson.Result) (gjson.Result, bool) {
		v := r.Get(path)
		return v, present(v)
	}
}

// arrayAt matches when path holds an array.
func arrayAt(path string) extractor {
	return func(r gjson.Result) (gjson.Result, bool) {
		v := r.Get(path)
		return v, v.IsArray()
	}
}

// firstOf applies rules in priority order; the first match wins.
func firstOf(r gjson.Result, rules []extractor) (gjson.Result, bool) {
	for _, rule := range rules {
		if v, ok := rule(r); ok {
			return v, true
		}
	}
	return gjson.Result{}, false
}

func present(v gjson.Result) bool { return v.Exists() && v.Type != gjson.Null }

var (
	routesRules = []extractor{
		arrayAt("routes"),
		arrayAt("solution.routes"),
		arrayAt("vehicles"),
		arrayAt("optimized_routes"),
	}
	totalDistanceRules = []extractor{
		valueAt("total_distance"),
		valueAt("summary.total_distance"),
		valueAt("total_distance_meters"),
		valueAt("distance"),
	}
	totalTimeRules = []extractor{
		valueAt("total_time"),
		valueAt("summary.total_time"),
		valueAt("time_seconds"),
		valueAt("duration"),
	}

	pointsRules    = []extractor{arrayAt("route"), arrayAt("stops")}
	latRules       = []extractor{valueAt("lat"), valueAt("latitude")}
	lngRules       = []extractor{valueAt("long"), valueAt("lng"), valueAt("lon"), valueAt("longitude")}
	labelRules     = []extractor{valueAt("node"), valueAt("name")}
	distanceRules  = []extractor{valueAt("distance"), valueAt("total_distance"), valueAt("distance_meters"), valueAt("metrics.distance")}
	timeRules      = []extractor{valueAt("time"), valueAt("total_time"), valueAt("time_seconds"), valueAt("metrics.time")}
	totalStoreRule = []extractor{valueAt("summary.total_stores_covered")}
)

// NormalizedSolution is the canonical view of a solver response.
type NormalizedSolution struct {
	// The response passed through, with routes, total_distance and
	// total_time rewritten to the resolved values (null when absent).
	Solution domain.SolverSolution
	// Raw route entries, in solver order.
	RawRoutes []json.RawMessage
	// Numeric totals when the resolved value is a number.
	TotalDistance *float64
	TotalTime     *float64
	// Routes ready for display.
	Routes []domain.Route
	// Points skipped because their coordinates were not finite numbers.
	DroppedStops int
}

// NormalizeSolution accepts any JSON document from the optimizer and
// resolves it into the canonical shape. Absent fields never fail; they
// only leave the corresponding values unset.
func NormalizeSolution(raw []byte) (NormalizedSolution, error) {
	var doc gjson.Result
	base := []byte("{}")
	if gjson.ValidBytes(raw) {
		doc = gjson.ParseBytes(raw)
		if doc.IsObject() {
			base = append([]byte(nil), raw...)
		}
	}

	out := NormalizedSolution{
		RawRoutes: []json.RawMessage{},
		Routes:    []domain.Route{},
	}

	routesRaw := "[]"
	var entries []gjson.Result
	if v, ok := firstOf(doc, routesRules); ok {
		routesRaw = v.Raw
		entries = v.Array()
	}

	distRaw := "null"
	if v, ok := firstOf(doc, totalDistanceRules); ok {
		distRaw = v.Raw
		out.TotalDistance = numberPtr(v)
	}

	timeRaw := "null"
	if v, ok := firstOf(doc, totalTimeRules); ok {
		timeRaw = v.Raw
		out.TotalTime = numberPtr(v)
	}

	payload, err := setRawFields(base, map[string]string{
		"routes":         routesRaw,
		"total_distance": distRaw,
		"total_time":     timeRaw,
	})
	if err != nil {
		return NormalizedSolution{}, fmt.Errorf("normalize solution: %w", err)
	}
	out.Solution = domain.SolverSolution{Payload: payload}

	totalStores := 0.0
	if v, ok := firstOf(doc, totalStoreRule); ok {
		if n, ok := toNumber(v); ok {
			totalStores = n
		}
	}

	for idx, entry := range entries {
		out.RawRoutes = append(out.RawRoutes, json.RawMessage(entry.Raw))

		route, dropped := normalizeRoute(entry, idx, totalStores)
		out.Routes = append(out.Routes, route)
		out.DroppedStops += dropped
	}

	return out, nil
}

func setRawFields(base []byte, fields map[string]string) ([]byte, error) {
	// Fixed order keeps the output stable.
	for _, k := range []string{"routes", "total_distance", "total_time"} {
		var err error
		base, err = sjson.SetRawBytes(base, k, []byte(fields[k]))
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", k, err)
		}
	}
	return base, nil
}

func normalizeRoute(entry gjson.Result, idx int, totalStores float64) (domain.Route, int) {
	vehicleID := entry.Get("vehicle_id")
	hasVehicleID := present(vehicleID)

	spID := fmt.Sprintf("vehicle_%d", idx)
	if hasVehicleID {
		spID = "vehicle_" + vehicleID.String()
	}

	var points []gjson.Result
	if v, ok := firstOf(entry, pointsRules); ok {
		points = v.Array()
	}

	dropped := 0
	stops := make([]domain.Stop, 0, len(points))
	storeCount := 0
	for i, p := range points {
		if nt := p.Get("node_type"); nt.Type == gjson.String && nt.Str == "store" {
			storeCount++
		}

		lat, okLat := firstNumber(p, latRules)
		lng, okLng := firstNumber(p, lngRules)
		if !okLat || !okLng {
			dropped++
			continue
		}

		label := fmt.Sprintf("Stop %d", i+1)
		if v, ok := firstOf(p, labelRules); ok {
			label = v.String()
		}

		stops = append(stops, domain.Stop{
			Lat:      lat,
			Lng:      lng,
			Label:    label,
			Sequence: domain.Ptr(i + 1),
		})
	}

	metrics := domain.RouteMetrics{}
	if meters, ok := firstNumber(entry, distanceRules); ok {
		metrics.DistanceKm = domain.Ptr(roundTo(meters/1000, 2))
	}
	if seconds, ok := firstNumber(entry, timeRules); ok {
		metrics.EtaMinutes = domain.Ptr(int(roundHalfUp(seconds / 60)))
	}

	storesVisited, hasStores := float64(storeCount), true
	if v := entry.Get("stores_visited"); present(v) {
		storesVisited, hasStores = toNumber(v)
	}
	if hasStores && totalStores != 0 {
		metrics.Efficiency = domain.Ptr(int(roundHalfUp(storesVisited / totalStores * 100)))
	}

	var name string
	switch {
	case len(points) > 0 && present(points[0].Get("node")):
		name = points[0].Get("node").String()
	case hasVehicleID && vehicleID.Type == gjson.Number:
		name = "Vehicle " + vehicleID.String()
	case hasVehicleID:
		name = vehicleID.String()
	default:
		name = strconv.Itoa(idx + 1)
	}

	return domain.Route{
		ID:              spID,
		SalespersonID:   spID,
		SalespersonName: name,
		Color:           domain.ColorFor(idx),
		Stops:           stops,
		Metrics:         &metrics,
	}, dropped
}

func firstNumber(r gjson.Result, rules []extractor) (float64, bool) {
	v, ok := firstOf(r, rules)
	if !ok {
		return 0, false
	}
	return toNumber(v)
}

// toNumber accepts JSON numbers and numeric strings; the result is finite.
func toNumber(v gjson.Result) (float64, bool) {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Num
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func numberPtr(v gjson.Result) *float64 {
	if n, ok := toNumber(v); ok {
		return &n
	}
	return nil
}
