package ports

import "context"

// Port: short-lived storage of directed travel durations between geohash cells.
type DurationCache interface {
	// Return cached seconds keyed by destination cell. Misses are simply absent.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]int64, error)
	// Store seconds keyed by destination cell.
	PutMany(ctx context.Context, origin string, durations map[string]int64) error
}
