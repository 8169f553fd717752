package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"store-route-service/internal/domain"
	"store-route-service/internal/platform/metrics"
	"store-route-service/internal/ports"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// Mode picks which Google endpoint answers Fetch.
type Mode string

const (
	ModeDirections Mode = "directions"
	ModeMatrix     Mode = "matrix"
)

const (
	// maxDirectionsWaypoints is Google's limit on intermediate waypoints.
	maxDirectionsWaypoints = 25
	// maxMatrixPoints caps origins (and destinations) per matrix request.
	maxMatrixPoints = 25
	// maxMatrixElements caps origins×destinations per matrix request.
	maxMatrixElements = 100
)

// ErrTooManyPoints is reported when a request exceeds the service limits.
var ErrTooManyPoints = errors.New("too many points for routing service")

type GoogleConfig struct {
	APIKey  string
	BaseURL string
	Mode    Mode

	// Timeout bounds each attempt; Attempts counts the first try.
	Timeout  time.Duration
	Attempts int
	Backoff  time.Duration

	RatePerSec float64
	Burst      int

	HTTPClient *http.Client
	Logger     zerolog.Logger
	Metrics    *metrics.Metrics
}

// GoogleGateway implements ports.TravelTimeGateway on the Google Maps
// Directions and Distance Matrix web services.
//
// It coordinates:
//   - fixed-backoff retries with a per-attempt timeout
//   - a circuit breaker that short-circuits to Failed during outages
//   - an outbound rate limit shared by all requests
//
// The gateway is safe for concurrent use.
type GoogleGateway struct {
	session  *http.Client
	apiKey   string
	baseURL  string
	mode     Mode
	timeout  time.Duration
	attempts int
	backoff  time.Duration
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[struct{}]
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

func NewGoogleGateway(cfg GoogleConfig) *GoogleGateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://maps.googleapis.com"
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeDirections
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	if cfg.Backoff < 0 {
		cfg.Backoff = 0
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{}
	}

	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	g := &GoogleGateway{
		session:  cfg.HTTPClient,
		apiKey:   cfg.APIKey,
		baseURL:  cfg.BaseURL,
		mode:     cfg.Mode,
		timeout:  cfg.Timeout,
		attempts: cfg.Attempts,
		backoff:  cfg.Backoff,
		limiter:  rate.NewLimiter(limit, cfg.Burst),
		log:      cfg.Logger.With().Str("component", "google_gateway").Logger(),
		metrics:  cfg.Metrics,
	}

	g.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "google-maps",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation and malformed requests say nothing about the health of the service.
			return err == nil || errors.Is(err, context.Canceled) || requestFault(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})

	return g
}

// Configured reports whether a credential is present.
func (g *GoogleGateway) Configured() bool { return g.apiKey != "" }

// Fetch implements ports.TravelTimeGateway.
func (g *GoogleGateway) Fetch(ctx context.Context, origin domain.Location, stops []domain.Location) ports.GatewayOutcome {
	if !g.Configured() {
		return g.record(ports.Unavailable())
	}
	if len(stops) == 0 {
		return g.record(ports.Failed(errors.New("no stops to route")))
	}

	if g.mode == ModeMatrix {
		return g.FetchMatrix(ctx, append([]domain.Location{origin}, stops...))
	}

	order, total, err := g.fetchDirections(ctx, origin, stops)
	if err != nil {
		return g.record(ports.Failed(fmt.Errorf("google directions: %w", err)))
	}
	return g.record(ports.Optimized(order, total))
}

// FetchMatrix returns the full directed duration matrix over points.
func (g *GoogleGateway) FetchMatrix(ctx context.Context, points []domain.Location) ports.GatewayOutcome {
	if !g.Configured() {
		return g.record(ports.Unavailable())
	}

	m, err := g.fetchMatrix(ctx, points)
	if err != nil {
		return g.record(ports.Failed(fmt.Errorf("google matrix: %w", err)))
	}
	return g.record(ports.Matrix(m))
}

func (g *GoogleGateway) record(out ports.GatewayOutcome) ports.GatewayOutcome {
	g.metrics.ObserveGatewayCall(string(g.mode), out.Kind.String())
	if out.Kind == ports.OutcomeFailed {
		g.log.Warn().Err(out.Err).Str("mode", string(g.mode)).Msg("gateway call failed")
	}
	return out
}
