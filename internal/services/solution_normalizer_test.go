package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestNormalizeSolutionBasicRoute(t *testing.T) {
	raw := `{"routes":[{"vehicle_id":0,"route":[{"node":"A","lat":1,"long":2}],"distance":5000,"time":600}]}`

	norm, err := NormalizeSolution([]byte(raw))
	require.NoError(t, err)
	require.Len(t, norm.Routes, 1)

	r := norm.Routes[0]
	assert.Equal(t, "vehicle_0", r.ID)
	assert.Equal(t, "vehicle_0", r.SalespersonID)
	assert.Equal(t, "A", r.SalespersonName)
	assert.Equal(t, "#1d4ed8", r.Color)

	require.Len(t, r.Stops, 1)
	assert.Equal(t, 1.0, r.Stops[0].Lat)
	assert.Equal(t, 2.0, r.Stops[0].Lng)
	assert.Equal(t, "A", r.Stops[0].Label)
	assert.Equal(t, 1, *r.Stops[0].Sequence)

	require.NotNil(t, r.Metrics)
	assert.Equal(t, 5.0, *r.Metrics.DistanceKm)
	assert.Equal(t, 10, *r.Metrics.EtaMinutes)
	assert.Nil(t, r.Metrics.Efficiency)
}

func TestNormalizeSolutionEmptyObject(t *testing.T) {
	norm, err := NormalizeSolution([]byte(`{}`))
	require.NoError(t, err)

	assert.Empty(t, norm.Routes)
	assert.Empty(t, norm.RawRoutes)
	assert.Nil(t, norm.TotalDistance)
	assert.Nil(t, norm.TotalTime)
	assert.JSONEq(t, `{"routes":[],"total_distance":null,"total_time":null}`, string(norm.Solution.Payload))
}

func TestNormalizeSolutionNotAnObject(t *testing.T) {
	for _, raw := range []string{``, `[]`, `"text"`, `{broken`} {
		norm, err := NormalizeSolution([]byte(raw))
		require.NoError(t, err, raw)
		assert.Empty(t, norm.Routes, raw)
		assert.JSONEq(t, `{"routes":[],"total_distance":null,"total_time":null}`, string(norm.Solution.Payload), raw)
	}
}

func TestNormalizeSolutionShapePriority(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		routes   int
		distance *float64
		time     *float64
	}{
		{
			name:   "solution.routes when routes is not an array",
			raw:    `{"routes":"n/a","solution":{"routes":[{},{}]},"summary":{"total_distance":12,"total_time":34}}`,
			routes: 2, distance: ptrF(12), time: ptrF(34),
		},
		{
			name:   "vehicles",
			raw:    `{"vehicles":[{}],"total_distance_meters":100,"time_seconds":"60"}`,
			routes: 1, distance: ptrF(100), time: ptrF(60),
		},
		{
			name:   "optimized_routes and plain distance",
			raw:    `{"optimized_routes":[{},{},{}],"distance":7,"duration":8}`,
			routes: 3, distance: ptrF(7), time: ptrF(8),
		},
		{
			name:   "top level wins over summary",
			raw:    `{"routes":[],"total_distance":1,"summary":{"total_distance":2},"total_time":null,"duration":9}`,
			routes: 0, distance: ptrF(1), time: ptrF(9),
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			norm, err := NormalizeSolution([]byte(c.raw))
			require.NoError(t, err)

			assert.Len(t, norm.Routes, c.routes)
			assert.Len(t, norm.RawRoutes, c.routes)
			assert.Equal(t, c.distance, norm.TotalDistance)
			assert.Equal(t, c.time, norm.TotalTime)

			payload := gjson.ParseBytes(norm.Solution.Payload)
			assert.True(t, payload.Get("routes").IsArray())
			assert.Equal(t, int64(c.routes), payload.Get("routes.#").Int())
		})
	}
}

func TestNormalizeSolutionKeepsPassThroughFields(t *testing.T) {
	raw := `{"status":"OPTIMAL","summary":{"total_stores_covered":4},"vehicles":[{"vehicle_id":1}],"total_distance":"12.5km"}`

	norm, err := NormalizeSolution([]byte(raw))
	require.NoError(t, err)

	payload := gjson.ParseBytes(norm.Solution.Payload)
	assert.Equal(t, "OPTIMAL", payload.Get("status").String())
	assert.Equal(t, int64(4), payload.Get("summary.total_stores_covered").Int())
	assert.Equal(t, "12.5km", payload.Get("total_distance").String())
	assert.Equal(t, int64(1), payload.Get("routes.0.vehicle_id").Int())
	assert.Nil(t, norm.TotalDistance)
}

func TestNormalizeSolutionRouteFields(t *testing.T) {
	raw := `{
		"summary": {"total_stores_covered": 4},
		"routes": [
			{"vehicle_id": 3, "stops": [
				{"name": "Depot", "latitude": "1.5", "lng": 2},
				{"lat": 3, "lon": 4, "node_type": "store"},
				{"lat": 5, "longitude": 6, "node_type": "store"}
			], "metrics": {"distance": 1234, "time": 89}},
			{"vehicle_id": "north", "route": [], "total_distance": 2000, "stores_visited": 3},
			{"route": [{"node": null, "lat": "x", "long": 1}, {"lat": 1, "long": 1}]}
		]
	}`

	norm, err := NormalizeSolution([]byte(raw))
	require.NoError(t, err)
	require.Len(t, norm.Routes, 3)

	first := norm.Routes[0]
	assert.Equal(t, "vehicle_3", first.ID)
	assert.Equal(t, "Vehicle 3", first.SalespersonName)
	require.Len(t, first.Stops, 3)
	assert.Equal(t, "Depot", first.Stops[0].Label)
	assert.Equal(t, 1.5, first.Stops[0].Lat)
	assert.Equal(t, "Stop 2", first.Stops[1].Label)
	assert.Equal(t, 4.0, first.Stops[1].Lng)
	assert.Equal(t, 3, *first.Stops[2].Sequence)
	assert.Equal(t, 1.23, *first.Metrics.DistanceKm)
	assert.Equal(t, 1, *first.Metrics.EtaMinutes)
	assert.Equal(t, 50, *first.Metrics.Efficiency)

	second := norm.Routes[1]
	assert.Equal(t, "vehicle_north", second.ID)
	assert.Equal(t, "north", second.SalespersonName)
	assert.Empty(t, second.Stops)
	assert.Equal(t, 2.0, *second.Metrics.DistanceKm)
	assert.Nil(t, second.Metrics.EtaMinutes)
	assert.Equal(t, 75, *second.Metrics.Efficiency)
	assert.Equal(t, "#2563eb", second.Color)

	third := norm.Routes[2]
	assert.Equal(t, "vehicle_2", third.ID)
	assert.Equal(t, "3", third.SalespersonName)
	require.Len(t, third.Stops, 1)
	assert.Equal(t, "Stop 2", third.Stops[0].Label)
	assert.Equal(t, 2, *third.Stops[0].Sequence)
	assert.Equal(t, 1, norm.DroppedStops)
}

func ptrF(f float64) *float64 { return &f }
