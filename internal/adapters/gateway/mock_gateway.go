package gateway

import (
	"context"
	"store-route-service/internal/domain"
	"store-route-service/internal/ports"
	"sync"
)

// MockGateway replays scripted outcomes in order and repeats the last one.
// It records every call and is safe for concurrent use.
type MockGateway struct {
	mu       sync.Mutex
	outcomes []ports.GatewayOutcome
	calls    [][]domain.Location
}

func NewMockGateway(outcomes ...ports.GatewayOutcome) *MockGateway {
	return &MockGateway{outcomes: outcomes}
}

// NewMatrixMockGateway answers every call with m, which must cover origin plus stops.
func NewMatrixMockGateway(m domain.DurationMatrix) *MockGateway {
	return NewMockGateway(ports.Matrix(m))
}

func (g *MockGateway) Fetch(ctx context.Context, origin domain.Location, stops []domain.Location) ports.GatewayOutcome {
	return g.FetchMatrix(ctx, append([]domain.Location{origin}, stops...))
}

func (g *MockGateway) FetchMatrix(ctx context.Context, points []domain.Location) ports.GatewayOutcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, points)

	if err := ctx.Err(); err != nil {
		return ports.Failed(err)
	}
	if len(g.outcomes) == 0 {
		return ports.Unavailable()
	}

	out := g.outcomes[0]
	if len(g.outcomes) > 1 {
		g.outcomes = g.outcomes[1:]
	}
	return out
}

// Calls returns how many times the gateway was asked.
func (g *MockGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}
