package services

import (
	"context"
	"fmt"
	"store-route-service/internal/domain"
	"store-route-service/internal/platform/metrics"
	"store-route-service/internal/ports"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "store-route-service/internal/services"

type OptimizerConfig struct {
	// Gateway may be nil, which behaves like an unconfigured routing service.
	Gateway         ports.TravelTimeGateway
	SpeedKmh        float64
	MaxTwoOptPasses int
	Logger          zerolog.Logger
	Metrics         *metrics.Metrics
}

// RouteOptimizer turns a RouteRequest into a RouteResult.
//
// It prefers the gateway's own ordering, then a remote matrix refined by
// ConstructTour and ImproveTour, and falls back to the LocalPlanner whenever the
// gateway is unavailable or fails. Only invalid requests produce errors.
// It holds no per-request state and is safe for concurrent use.
type RouteOptimizer struct {
	gateway   ports.TravelTimeGateway
	local     *LocalPlanner
	maxPasses int
	log       zerolog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

func NewRouteOptimizer(cfg OptimizerConfig) *RouteOptimizer {
	if cfg.MaxTwoOptPasses <= 0 {
		cfg.MaxTwoOptPasses = DefaultMaxTwoOptPasses
	}
	return &RouteOptimizer{
		gateway:   cfg.Gateway,
		local:     NewLocalPlanner(cfg.SpeedKmh),
		maxPasses: cfg.MaxTwoOptPasses,
		log:       cfg.Logger,
		metrics:   cfg.Metrics,
		tracer:    otel.Tracer(tracerName),
	}
}

// plan is the request-local working state, indexed by position in candidates.
type plan struct {
	origin     domain.Location
	first      int // consumed input index in from-first-stop mode, else -1
	candidates []int
	points     []domain.Location
}

func (o *RouteOptimizer) Optimize(ctx context.Context, req domain.RouteRequest) (domain.RouteResult, error) {
	ctx, span := o.tracer.Start(ctx, "RouteOptimizer.Optimize", trace.WithAttributes(
		attribute.String("route.mode", string(req.Mode)),
		attribute.Int("route.stops", len(req.Stops)),
	))
	defer span.End()

	start := time.Now()

	if err := req.Validate(); err != nil {
		span.RecordError(err)
		return domain.RouteResult{}, fmt.Errorf("optimize route: %w", err)
	}

	p, dropped, err := o.prepare(req)
	if err != nil {
		span.RecordError(err)
		return domain.RouteResult{}, fmt.Errorf("optimize route: %w", err)
	}

	var (
		order    []int
		total    int64
		source   domain.Source
		degraded bool
	)

	switch {
	case len(p.candidates) == 0:
		// Only the consumed first stop is usable.
		order, source = []int{}, domain.SourceLocal
	case len(p.candidates) == 1 && !p.hasFirst():
		order = []int{0}
		total = o.local.LegSeconds(p.origin, p.points[0])
		source = domain.SourceLocal
	default:
		order, total, source, degraded = o.planWithGateway(ctx, p)
	}

	res := o.assemble(req, p, order, total, source, degraded, dropped)

	span.SetAttributes(
		attribute.String("route.source", string(res.Source)),
		attribute.Bool("route.degraded", res.Degraded),
		attribute.Int64("route.total_seconds", res.TotalSeconds),
	)
	o.metrics.ObservePlan(string(res.Source), res.Degraded, time.Since(start))

	o.log.Info().
		Str("source", string(res.Source)).
		Bool("degraded", res.Degraded).
		Int("stops", len(res.Order)).
		Int("dropped", len(res.Dropped)).
		Int64("total_seconds", res.TotalSeconds).
		Msg("route planned")

	return res, nil
}

func (p plan) hasFirst() bool { return p.first >= 0 }

// prepare drops unusable stops and resolves the origin for the request mode.
func (o *RouteOptimizer) prepare(req domain.RouteRequest) (plan, []domain.DroppedStop, error) {
	var (
		usable  []int
		dropped []domain.DroppedStop
	)
	for i, s := range req.Stops {
		if err := s.Location.Validate(); err != nil {
			dropped = append(dropped, domain.DroppedStop{StopIndex: i, Label: s.Label, Reason: err.Error()})
			continue
		}
		usable = append(usable, i)
	}

	if len(usable) == 0 {
		return plan{}, dropped, &domain.RequestError{
			Reason: fmt.Sprintf("none of the %d stops has usable coordinates", len(req.Stops)),
			Err:    domain.ErrNoUsablePoints,
		}
	}

	p := plan{first: -1}
	switch req.Mode {
	case domain.ModeFromLocation:
		p.origin = *req.Origin
		p.candidates = usable
	case domain.ModeFromFirstStop:
		p.first = usable[0]
		p.origin = req.Stops[p.first].Location
		p.candidates = usable[1:]
	}

	p.points = make([]domain.Location, len(p.candidates))
	for i, idx := range p.candidates {
		p.points[i] = req.Stops[idx].Location
	}

	return p, dropped, nil
}

// planWithGateway returns an order over p.points.
func (o *RouteOptimizer) planWithGateway(ctx context.Context, p plan) ([]int, int64, domain.Source, bool) {
	out := o.fetch(ctx, p)

	switch out.Kind {
	case ports.OutcomeOptimized:
		if err := checkPermutation(out.Order, len(p.points)); err != nil {
			out = ports.Failed(fmt.Errorf("gateway order: %w", err))
			break
		}
		if out.TotalSeconds < 0 {
			out = ports.Failed(fmt.Errorf("gateway total: negative duration %d", out.TotalSeconds))
			break
		}
		return out.Order, out.TotalSeconds, domain.SourceRemoteOptimized, false

	case ports.OutcomeMatrix:
		if err := checkMatrix(out.Matrix, len(p.points)+1); err != nil {
			out = ports.Failed(fmt.Errorf("gateway matrix: %w", err))
			break
		}
		order, total, degraded := o.planFromMatrix(p, out.Matrix)
		return order, total, domain.SourceRemoteMatrix, degraded
	}

	degraded := out.Kind == ports.OutcomeFailed
	if degraded {
		o.log.Warn().Err(out.Err).Str("reason", "gateway failed").Int("stops", len(p.points)).
			Str("source", string(domain.SourceLocal)).Msg("falling back to local planner")
	} else {
		o.log.Debug().Str("reason", "gateway unavailable").Int("stops", len(p.points)).Msg("using local planner")
	}

	order, total := o.local.Plan(p.origin, p.points)
	return order, total, domain.SourceLocal, degraded
}

func (o *RouteOptimizer) fetch(ctx context.Context, p plan) ports.GatewayOutcome {
	if o.gateway == nil {
		return ports.Unavailable()
	}

	ctx, span := o.tracer.Start(ctx, "TravelTimeGateway.Fetch")
	defer span.End()

	out := o.gateway.Fetch(ctx, p.origin, p.points)

	// A cancelled caller must not get a result assembled from a half-finished call.
	if err := ctx.Err(); err != nil && out.Kind != ports.OutcomeFailed && out.Kind != ports.OutcomeUnavailable {
		out = ports.Failed(err)
	}

	span.SetAttributes(attribute.String("gateway.outcome", out.Kind.String()))
	if out.Err != nil {
		span.RecordError(out.Err)
	}
	return out
}

// planFromMatrix runs construction and 2-opt, then prices the final path.
// Unreachable legs are priced with the local estimate and flag the result degraded.
func (o *RouteOptimizer) planFromMatrix(p plan, m domain.DurationMatrix) ([]int, int64, bool) {
	tour := ConstructTour(m)
	seed := m.PathCost(append([]int{0}, tour...))

	tour, passes := ImproveTour(m, tour, o.maxPasses)

	path := append([]int{0}, tour...)
	at := func(i int) domain.Location {
		if i == 0 {
			return p.origin
		}
		return p.points[i-1]
	}

	var (
		total    int64
		degraded bool
	)
	for i := 0; i+1 < len(path); i++ {
		leg := m[path[i]][path[i+1]]
		if leg >= domain.Unreachable {
			leg = o.local.LegSeconds(at(path[i]), at(path[i+1]))
			degraded = true
		}
		total += leg
	}

	if degraded {
		o.log.Warn().Str("reason", "unreachable legs").Int("stops", len(p.points)).
			Str("source", string(domain.SourceRemoteMatrix)).Msg("patched legs with geodesic estimate")
	}
	o.log.Debug().Int64("seed_cost", seed).Int("passes", passes).Msg("2-opt finished")

	order := make([]int, len(tour))
	for i, node := range tour {
		order[i] = node - 1
	}
	return order, total, degraded
}

// assemble maps a candidate order back to input indices and builds the itinerary.
func (o *RouteOptimizer) assemble(
	req domain.RouteRequest,
	p plan,
	order []int,
	total int64,
	source domain.Source,
	degraded bool,
	dropped []domain.DroppedStop,
) domain.RouteResult {
	res := domain.RouteResult{
		TotalSeconds: total,
		Source:       source,
		Degraded:     degraded,
		Dropped:      dropped,
		Order:        make([]int, 0, len(order)+1),
		Itinerary:    make([]domain.Waypoint, 0, len(order)+1),
	}

	if p.hasFirst() {
		res.Order = append(res.Order, p.first)
	} else {
		res.Itinerary = append(res.Itinerary, domain.Waypoint{StopIndex: -1, Label: "Start", Location: p.origin})
	}
	for _, i := range order {
		res.Order = append(res.Order, p.candidates[i])
	}

	for _, idx := range res.Order {
		s := req.Stops[idx]
		res.Itinerary = append(res.Itinerary, domain.Waypoint{StopIndex: idx, Label: s.Label, Location: s.Location})
	}

	return res
}

func checkPermutation(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("got %d indices, want %d", len(order), n)
	}
	seen := make([]bool, n)
	for _, i := range order {
		if i < 0 || i >= n || seen[i] {
			return fmt.Errorf("index %d is out of range or repeated", i)
		}
		seen[i] = true
	}
	return nil
}

func checkMatrix(m domain.DurationMatrix, n int) error {
	if m.Size() != n {
		return fmt.Errorf("got %d rows, want %d", m.Size(), n)
	}
	return m.Validate()
}
