package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"store-route-service/internal/api/dto"
	"store-route-service/internal/catalog"
	"store-route-service/internal/domain"
	"store-route-service/internal/ports"
	"store-route-service/internal/services"
	"strings"
)

const maxRouteBody = 64 << 10

type RouteHandler struct {
	Catalog   ports.StoreCatalog
	Brands    catalog.Brands
	Optimizer services.Optimizer
}

// Plan serves POST /routes: parse store codes, resolve them against the
// catalog and return the optimized visiting order.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest

	dec := json.NewDecoder(io.LimitReader(r.Body, maxRouteBody))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	text, err := stopsText(req.Stops)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	keys, ignored := h.Brands.ParseCodes(text)
	if len(keys) == 0 {
		writeError(w, r, http.StatusBadRequest, "no store codes recognised, expected e.g. \"l5 c30 fo70\"")
		return
	}

	var origin *domain.Location
	if req.Origin != nil {
		origin = &domain.Location{Lat: req.Origin.Lat, Lon: req.Origin.Lon}
	}

	mode, err := requestMode(req.Mode, origin != nil)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res, err := services.PlanStoreRoute(r.Context(), services.StoreRouteRequest{
		Keys:   keys,
		Origin: origin,
		Mode:   mode,
	}, h.Catalog, h.Optimizer)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toRouteResponse(mode, keys, ignored, res))
}

// stopsText accepts "l5 c30" or ["l5", "c30"].
func stopsText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", errors.New("stops is required")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, " "), nil
	}
	return "", errors.New("stops must be a string or an array of strings")
}

// requestMode defaults to from-location when an origin is given.
func requestMode(text string, hasOrigin bool) (domain.Mode, error) {
	if strings.TrimSpace(text) == "" && hasOrigin {
		return domain.ModeFromLocation, nil
	}
	return domain.ParseMode(strings.ToLower(strings.TrimSpace(text)))
}

func toRouteResponse(mode domain.Mode, keys []domain.StoreKey, ignored []string, res domain.RouteResult) dto.RouteResponse {
	out := dto.RouteResponse{
		Mode:         string(mode),
		Source:       string(res.Source),
		Degraded:     res.Degraded,
		TotalSeconds: res.TotalSeconds,
		Itinerary:    make([]dto.WaypointResponse, 0, len(res.Itinerary)),
		Dropped:      make([]dto.DroppedResponse, 0, len(res.Dropped)),
		Ignored:      ignored,
	}

	for _, wp := range res.Itinerary {
		item := dto.WaypointResponse{Label: wp.Label, Lat: wp.Location.Lat, Lon: wp.Location.Lon}
		if wp.StopIndex >= 0 {
			idx := wp.StopIndex
			item.Index = &idx
			item.Code = keys[idx].String()
		}
		out.Itinerary = append(out.Itinerary, item)
	}
	for _, d := range res.Dropped {
		out.Dropped = append(out.Dropped, dto.DroppedResponse{
			Index:  d.StopIndex,
			Code:   keys[d.StopIndex].String(),
			Reason: d.Reason,
		})
	}

	return out
}
