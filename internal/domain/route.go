package domain

// Represents one visit point of a beat plan.
// A Stop has no identity beyond its position in a route's ordered sequence.
type Stop struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Label    string  `json:"label,omitempty"`
	Sequence *int    `json:"sequence,omitempty"`
}

// Return the sequence number, treating a missing sequence as 0.
func (s Stop) SequenceOrZero() int {
	if s.Sequence == nil {
		return 0
	}
	return *s.Sequence
}

func (s Stop) Coordinates() Coordinates { return Coordinates{Lat: s.Lat, Lng: s.Lng} }

// Display metrics attached to a route. Every field is optional:
// an absent value means the metric was not computed.
type RouteMetrics struct {
	DistanceKm *float64 `json:"distanceKm,omitempty"`
	EtaMinutes *int     `json:"etaMinutes,omitempty"`
	Efficiency *int     `json:"efficiency,omitempty"`
}

// Represents the ordered stops assigned to one salesperson.
// Routes are replaced wholesale on every upload or solver run.
type Route struct {
	ID              string        `json:"id"`
	SalespersonID   string        `json:"salespersonId"`
	SalespersonName string        `json:"salespersonName"`
	Color           string        `json:"color"`
	Stops           []Stop        `json:"stops"`
	Metrics         *RouteMetrics `json:"metrics,omitempty"`
}

// Clone returns a deep copy so callers can never alias stored state.
func (r Route) Clone() Route {
	out := r

	out.Stops = make([]Stop, len(r.Stops))
	for i, s := range r.Stops {
		if s.Sequence != nil {
			s.Sequence = Ptr(*s.Sequence)
		}
		out.Stops[i] = s
	}

	if r.Metrics != nil {
		m := RouteMetrics{}
		if r.Metrics.DistanceKm != nil {
			m.DistanceKm = Ptr(*r.Metrics.DistanceKm)
		}
		if r.Metrics.EtaMinutes != nil {
			m.EtaMinutes = Ptr(*r.Metrics.EtaMinutes)
		}
		if r.Metrics.Efficiency != nil {
			m.Efficiency = Ptr(*r.Metrics.Efficiency)
		}
		out.Metrics = &m
	}

	return out
}

var routePalette = [...]string{"#1d4ed8", "#2563eb", "#3b82f6", "#60a5fa"}

// ColorFor picks the display color of the idx-th route from a repeating palette.
func ColorFor(idx int) string {
	n := len(routePalette)
	return routePalette[((idx%n)+n)%n]
}

func Ptr[T any](v T) *T { return &v }
