package gateway

import (
	"context"
	"fmt"
	"net/url"
	"store-route-service/internal/domain"
	"strings"
	"sync"
)

type matrixElement struct {
	Status            string         `json:"status"`
	Duration          *durationValue `json:"duration"`
	DurationInTraffic *durationValue `json:"duration_in_traffic"`
}

type matrixRow struct {
	Elements []matrixElement `json:"elements"`
}

type matrixResponse struct {
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message"`
	Rows         []matrixRow `json:"rows"`
}

type chunkResult struct {
	from int
	rows [][]int64
	err  error
}

// fetchMatrix retrieves durations between every ordered pair of points.
//
// Origins are split into row chunks so that no request exceeds the element
// limit; chunks run concurrently. Cells Google could not price become
// domain.Unreachable and the diagonal is forced to zero.
func (g *GoogleGateway) fetchMatrix(ctx context.Context, points []domain.Location) (domain.DurationMatrix, error) {
	n := len(points)
	if n > maxMatrixPoints {
		return nil, fmt.Errorf("%w: %d points, limit %d", ErrTooManyPoints, n, maxMatrixPoints)
	}

	m := domain.NewDurationMatrix(n)
	if n <= 1 {
		return m, nil
	}

	rowsPerChunk := max(1, maxMatrixElements/n)
	destinations := joinLocations(points)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, 4)
	resultsCh := make(chan chunkResult, (n+rowsPerChunk-1)/rowsPerChunk)
	var wg sync.WaitGroup

	for from := 0; from < n; from += rowsPerChunk {
		to := min(n, from+rowsPerChunk)

		wg.Add(1)
		go func(from, to int) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			rows, err := g.fetchMatrixChunk(ctx, points[from:to], destinations, n)
			if err != nil {
				resultsCh <- chunkResult{from: from, err: fmt.Errorf("rows %d-%d: %w", from, to-1, err)}
				cancel()
				return
			}
			resultsCh <- chunkResult{from: from, rows: rows}
		}(from, to)
	}

	wg.Wait()
	close(resultsCh)

	var firstErr error
	for res := range resultsCh {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		for i, row := range res.rows {
			copy(m[res.from+i], row)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	for i := range m {
		m[i][i] = 0
	}
	return m, nil
}

func (g *GoogleGateway) fetchMatrixChunk(ctx context.Context, origins []domain.Location, destinations string, n int) ([][]int64, error) {
	params := url.Values{}
	params.Set("origins", joinLocations(origins))
	params.Set("destinations", destinations)
	params.Set("mode", "driving")
	params.Set("departure_time", "now")
	params.Set("traffic_model", "best_guess")

	var rows [][]int64
	err := g.withRetry(ctx, "distancematrix", func(ctx context.Context) error {
		var mr matrixResponse
		if err := g.getJSON(ctx, "/maps/api/distancematrix/json", params, &mr); err != nil {
			return err
		}

		var err error
		rows, err = parseMatrix(mr, len(origins), n)
		return err
	})
	return rows, err
}

func parseMatrix(mr matrixResponse, origins, destinations int) ([][]int64, error) {
	if mr.Status != "OK" {
		return nil, &apiStatusError{Status: mr.Status, Message: mr.ErrorMessage}
	}
	if len(mr.Rows) != origins {
		return nil, fmt.Errorf("response has %d rows, want %d", len(mr.Rows), origins)
	}

	out := make([][]int64, origins)
	for i, row := range mr.Rows {
		if len(row.Elements) != destinations {
			return nil, fmt.Errorf("row %d has %d elements, want %d", i, len(row.Elements), destinations)
		}

		out[i] = make([]int64, destinations)
		for j, el := range row.Elements {
			// A single unpriced pair degrades the plan but does not fail the call.
			s, ok := seconds(el.DurationInTraffic, el.Duration)
			if el.Status != "OK" || !ok {
				s = domain.Unreachable
			}
			out[i][j] = s
		}
	}
	return out, nil
}

func joinLocations(locs []domain.Location) string {
	parts := make([]string, len(locs))
	for i, l := range locs {
		parts[i] = l.String()
	}
	return strings.Join(parts, "|")
}
