package main

import (
	"fmt"
	"io"
	"net/url"
	"store-route-service/internal/domain"
	"strconv"
	"strings"
)

const mapsDirURL = "https://www.google.com/maps/dir/?api=1"

// parseOrigin reads "lat,lon". An empty string means no origin.
func parseOrigin(s string) (*domain.Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	latText, lonText, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("origin %q: expected lat,lon", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return nil, fmt.Errorf("origin %q: bad latitude: %w", s, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil {
		return nil, fmt.Errorf("origin %q: bad longitude: %w", s, err)
	}
	loc := domain.Location{Lat: lat, Lon: lon}
	if err := loc.Validate(); err != nil {
		return nil, fmt.Errorf("origin %q: %w", s, err)
	}
	return &loc, nil
}

// formatDuration renders whole minutes as "1h 5m" or "42m".
func formatDuration(seconds int64) string {
	mins := (seconds + 30) / 60
	if mins < 0 {
		mins = 0
	}
	if h := mins / 60; h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins%60)
	}
	return fmt.Sprintf("%dm", mins)
}

// mapsURL links to Google Maps directions through points in order.
// Fewer than two points give an empty string.
func mapsURL(points []domain.Location) string {
	if len(points) < 2 {
		return ""
	}
	var b strings.Builder
	b.WriteString(mapsDirURL)
	b.WriteString("&origin=" + url.QueryEscape(points[0].String()))
	b.WriteString("&destination=" + url.QueryEscape(points[len(points)-1].String()))

	if mid := points[1 : len(points)-1]; len(mid) > 0 {
		wps := make([]string, len(mid))
		for i, p := range mid {
			wps[i] = p.String()
		}
		b.WriteString("&waypoints=" + url.QueryEscape(strings.Join(wps, "|")))
	}
	return b.String()
}

func printRoute(w io.Writer, mode domain.Mode, keys []domain.StoreKey, res domain.RouteResult) {
	start := "first store"
	if mode == domain.ModeFromLocation {
		start = "given origin"
	}
	fmt.Fprintf(w, "Optimized route (source: %s, start: %s)\n", res.Source, start)
	if res.Degraded {
		fmt.Fprintln(w, "Warning: live traffic data was incomplete, estimate is approximate")
	}
	fmt.Fprintf(w, "Estimated duration: ~%s\n\n", formatDuration(res.TotalSeconds))

	points := make([]domain.Location, 0, len(res.Itinerary))
	n := 0
	for _, wp := range res.Itinerary {
		points = append(points, wp.Location)
		if wp.StopIndex < 0 {
			continue
		}
		n++
		fmt.Fprintf(w, "%d. %s\n", n, wp.Label)
	}

	if len(res.Dropped) > 0 {
		fmt.Fprintln(w)
		for _, d := range res.Dropped {
			fmt.Fprintf(w, "Skipped %s: %s\n", keys[d.StopIndex], d.Reason)
		}
	}

	if link := mapsURL(points); link != "" {
		fmt.Fprintf(w, "\nMap: %s\n", link)
	}
}
