package main

import (
	"bytes"
	"store-route-service/internal/domain"
	"strings"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	cases := map[int64]string{
		0:    "0m",
		29:   "0m",
		30:   "1m",
		2520: "42m",
		3600: "1h 0m",
		3929: "1h 5m",
		-100: "0m",
	}
	for in, want := range cases {
		if got := formatDuration(in); got != want {
			t.Fatalf("formatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestMapsURL(t *testing.T) {
	if got := mapsURL([]domain.Location{{Lat: 47, Lon: 28}}); got != "" {
		t.Fatalf("single point: got %q, want empty", got)
	}

	got := mapsURL([]domain.Location{{Lat: 47.01, Lon: 28.86}, {Lat: 47.02, Lon: 28.87}})
	want := "https://www.google.com/maps/dir/?api=1&origin=47.010000%2C28.860000&destination=47.020000%2C28.870000"
	if got != want {
		t.Fatalf("two points:\n got %s\nwant %s", got, want)
	}

	got = mapsURL([]domain.Location{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}, {Lat: 5, Lon: 6}, {Lat: 7, Lon: 8}})
	if !strings.HasSuffix(got, "&waypoints=3.000000%2C4.000000%7C5.000000%2C6.000000") {
		t.Fatalf("waypoints missing or misordered: %s", got)
	}
}

func TestParseOrigin(t *testing.T) {
	loc, err := parseOrigin(" 47.010, 28.863 ")
	if err != nil || loc == nil || loc.Lat != 47.010 || loc.Lon != 28.863 {
		t.Fatalf("parseOrigin = %v, %v", loc, err)
	}
	if loc, err := parseOrigin(""); err != nil || loc != nil {
		t.Fatalf("empty origin = %v, %v", loc, err)
	}
	for _, bad := range []string{"47.0", "a,b", "0,0", "91,10"} {
		if _, err := parseOrigin(bad); err == nil {
			t.Fatalf("parseOrigin(%q): expected error", bad)
		}
	}
}

func TestPrintRoute(t *testing.T) {
	keys := []domain.StoreKey{{Brand: "l", Number: 5}, {Brand: "m", Number: 99}, {Brand: "c", Number: 30}}
	res := domain.RouteResult{
		Order:        []int{2, 0},
		TotalSeconds: 1500,
		Source:       domain.SourceRemoteMatrix,
		Itinerary: []domain.Waypoint{
			{StopIndex: -1, Label: "Start", Location: domain.Location{Lat: 47, Lon: 28.8}},
			{StopIndex: 2, Label: "Cip 30", Location: domain.Location{Lat: 47.03, Lon: 28.78}},
			{StopIndex: 0, Label: "Linella 5", Location: domain.Location{Lat: 47.01, Lon: 28.86}},
		},
		Dropped: []domain.DroppedStop{{StopIndex: 1, Label: "m99", Reason: "m99 not found"}},
	}

	var buf bytes.Buffer
	printRoute(&buf, domain.ModeFromLocation, keys, res)
	out := buf.String()

	for _, want := range []string{
		"source: remote-matrix, start: given origin",
		"~25m",
		"1. Cip 30\n2. Linella 5\n",
		"Skipped m99: m99 not found",
		"Map: https://www.google.com/maps/dir/?api=1&origin=47.000000%2C28.800000",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Warning") {
		t.Fatalf("non-degraded result printed a warning:\n%s", out)
	}
}
