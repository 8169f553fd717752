package ports

import (
	"context"
	"store-route-service/internal/domain"
)

// OutcomeKind tags a GatewayOutcome.
type OutcomeKind int

const (
	// OutcomeUnavailable means no routing service is configured; no network call was made.
	OutcomeUnavailable OutcomeKind = iota
	// OutcomeFailed means retries were exhausted, the circuit was open, or the call was cancelled.
	OutcomeFailed
	// OutcomeOptimized means the service solved the ordering itself.
	OutcomeOptimized
	// OutcomeMatrix means the service returned pairwise durations only.
	OutcomeMatrix
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeFailed:
		return "failed"
	case OutcomeOptimized:
		return "optimized"
	case OutcomeMatrix:
		return "matrix"
	}
	return "unknown"
}

// Tagged result of a Travel-Time Gateway call. Only the fields for Kind are set.
//
// Order and TotalSeconds belong to OutcomeOptimized: Order indexes the stops slice
// passed to Fetch. Matrix belongs to OutcomeMatrix: index 0 is the origin, i+1 is stops[i].
// Err explains OutcomeFailed and is for logging only.
type GatewayOutcome struct {
	Kind         OutcomeKind
	Order        []int
	TotalSeconds int64
	Matrix       domain.DurationMatrix
	Err          error
}

func Unavailable() GatewayOutcome { return GatewayOutcome{Kind: OutcomeUnavailable} }

func Failed(err error) GatewayOutcome { return GatewayOutcome{Kind: OutcomeFailed, Err: err} }

func Optimized(order []int, totalSeconds int64) GatewayOutcome {
	return GatewayOutcome{Kind: OutcomeOptimized, Order: order, TotalSeconds: totalSeconds}
}

func Matrix(m domain.DurationMatrix) GatewayOutcome {
	return GatewayOutcome{Kind: OutcomeMatrix, Matrix: m}
}

// Contract for retrieving travel times from an external routing service.
//
// Fetch never returns an error: transport, status and parse failures are
// reported as OutcomeFailed so callers branch on Kind.
type TravelTimeGateway interface {
	Fetch(ctx context.Context, origin domain.Location, stops []domain.Location) GatewayOutcome
}

// Optional extension for gateways that can return a full matrix even when they
// would normally optimise in a single call. Used by cache decorators.
type MatrixGateway interface {
	TravelTimeGateway
	FetchMatrix(ctx context.Context, points []domain.Location) GatewayOutcome
}
