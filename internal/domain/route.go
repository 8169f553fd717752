package domain

import "fmt"

// Mode selects where a route starts.
type Mode string

const (
	// ModeFromLocation starts at a caller-supplied live position; every stop is ordered.
	ModeFromLocation Mode = "from-location"
	// ModeFromFirstStop consumes the first stop as the origin and orders the rest.
	ModeFromFirstStop Mode = "from-first-stop"
)

// ParseMode accepts the canonical names plus the short forms used by chat front-ends.
func ParseMode(s string) (Mode, error) {
	switch s {
	case string(ModeFromLocation), "loc", "location":
		return ModeFromLocation, nil
	case string(ModeFromFirstStop), "first", "":
		return ModeFromFirstStop, nil
	}
	return "", invalidRequest(fmt.Sprintf("unknown mode %q", s))
}

// Stop is a destination plus an opaque label used only by the presentation layer.
type Stop struct {
	Label    string
	Location Location
}

// RouteRequest is built by the caller for every request; nothing is remembered between requests.
type RouteRequest struct {
	Origin *Location
	Stops  []Stop
	Mode   Mode
}

// Validate checks the request shape. Individual stop coordinates are checked later:
// bad stops are dropped, a bad request is rejected.
func (r RouteRequest) Validate() error {
	if len(r.Stops) == 0 {
		return invalidRequest("stop list is empty")
	}

	switch r.Mode {
	case ModeFromLocation:
		if r.Origin == nil {
			return invalidRequest("from-location mode requires an origin")
		}
		if err := r.Origin.Validate(); err != nil {
			return &RequestError{Reason: "origin: " + err.Error(), Err: ErrInvalidRequest}
		}
	case ModeFromFirstStop:
	default:
		return invalidRequest(fmt.Sprintf("unknown mode %q", r.Mode))
	}

	return nil
}

// Source names the path the optimizer took to produce a result.
type Source string

const (
	SourceRemoteOptimized Source = "remote-optimized"
	SourceRemoteMatrix    Source = "remote-matrix"
	SourceLocal           Source = "local"
)

// Waypoint is one entry of the final itinerary. StopIndex is -1 for a live origin.
type Waypoint struct {
	StopIndex int
	Label     string
	Location  Location
}

// DroppedStop records a requested stop that could not be routed.
type DroppedStop struct {
	StopIndex int
	Label     string
	Reason    string
}

// Represents the planned visiting order for one request.
//
// Order holds indices into RouteRequest.Stops in visiting order. Together with Dropped
// it covers every input index exactly once. In from-first-stop mode Order[0] is the
// stop that was consumed as the origin.
type RouteResult struct {
	Order        []int
	TotalSeconds int64
	Source       Source
	Degraded     bool
	Itinerary    []Waypoint
	Dropped      []DroppedStop
}
