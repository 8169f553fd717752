package dto

import "encoding/json"

type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RouteRequest.Stops is either a free-text code list ("l5 c30 fo70") or an array of codes.
type RouteRequest struct {
	Stops  json.RawMessage  `json:"stops"`
	Origin *LocationRequest `json:"origin"`
	Mode   string           `json:"mode"`
}

type WaypointResponse struct {
	// Index is the position in the parsed code list, absent for the start point.
	Index *int    `json:"index,omitempty"`
	Code  string  `json:"code,omitempty"`
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

type DroppedResponse struct {
	Index  int    `json:"index"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

type RouteResponse struct {
	Mode         string             `json:"mode"`
	Source       string             `json:"source"`
	Degraded     bool               `json:"degraded"`
	TotalSeconds int64              `json:"total_seconds"`
	Itinerary    []WaypointResponse `json:"itinerary"`
	Dropped      []DroppedResponse  `json:"dropped"`
	Ignored      []string           `json:"ignored,omitempty"`
}
