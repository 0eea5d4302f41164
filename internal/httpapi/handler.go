// Package httpapi serves crust model point queries over HTTP.
package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/crust1/internal/crust"
	"github.com/UnknownOlympus/crust1/internal/metrics"
)

const metricsSource = "http"

// Handler answers point queries against a loaded model.
type Handler struct {
	model   *crust.Model
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler returns a Handler for model.
func NewHandler(model *crust.Model, log *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{model: model, log: log, metrics: m}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/point", h.point)
	mux.HandleFunc("GET /v1/layers", h.layers)
}

type pointResponse struct {
	Latitude  float64      `json:"lat"`
	Longitude float64      `json:"lon"`
	LatBucket int          `json:"lat_bucket"`
	LonBucket int          `json:"lon_bucket"`
	Layers    *crust.Point `json:"layers"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// point handles GET /v1/point?lat=..&lon=..[&include_no_thickness=true].
func (h *Handler) point(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	defer func() {
		h.metrics.QuerySeconds.WithLabelValues(metricsSource).Observe(time.Since(start).Seconds())
	}()

	query := r.URL.Query()
	lat, errLat := strconv.ParseFloat(query.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(query.Get("lon"), 64)
	if errLat != nil || errLon != nil {
		h.metrics.PointQueries.WithLabelValues(metricsSource, metrics.StatusBadRequest).Inc()
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "lat and lon must be numbers"})
		return
	}

	include := false
	if raw := query.Get("include_no_thickness"); raw != "" {
		var err error
		if include, err = strconv.ParseBool(raw); err != nil {
			h.metrics.PointQueries.WithLabelValues(metricsSource, metrics.StatusBadRequest).Inc()
			h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "include_no_thickness must be a boolean"})
			return
		}
	}

	p, err := h.model.Point(lat, lon, crust.IncludeZeroThickness(include))
	if err != nil {
		if errors.Is(err, crust.ErrOutOfRange) {
			h.metrics.PointQueries.WithLabelValues(metricsSource, metrics.StatusOutOfRange).Inc()
			h.log.DebugContext(ctx, "Point query out of range", "lat", lat, "lon", lon)
			h.writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
			return
		}
		h.metrics.PointQueries.WithLabelValues(metricsSource, metrics.StatusFailure).Inc()
		h.log.ErrorContext(ctx, "Point query failed", "lat", lat, "lon", lon, "error", err)
		h.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	if !h.writeJSON(w, r, http.StatusOK, pointResponse{
		Latitude:  lat,
		Longitude: lon,
		LatBucket: p.Index.Lat,
		LonBucket: p.Index.Lon,
		Layers:    p,
	}) {
		h.metrics.PointQueries.WithLabelValues(metricsSource, metrics.StatusFailure).Inc()
		return
	}
	h.metrics.PointQueries.WithLabelValues(metricsSource, metrics.StatusSuccess).Inc()
	h.metrics.PointLayers.WithLabelValues(metricsSource).Observe(float64(p.Len()))
}

// layers handles GET /v1/layers.
func (h *Handler) layers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, crust.LayerNames())
}

// writeJSON encodes body before writing the header. A body that cannot be
// encoded (NaN or Inf in the model data) is answered with a 500 and false.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) bool {
	ok := true
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		h.log.ErrorContext(r.Context(), "failed to encode reply", "error", err)
		ok = false
		buf.Reset()
		status = http.StatusInternalServerError
		_ = json.NewEncoder(&buf).Encode(errorResponse{Error: "internal error"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.ErrorContext(r.Context(), "failed to write reply", "error", err)
	}
	return ok
}
