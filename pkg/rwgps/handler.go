package rwgps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/ray1729/gpx-profile/pkg/config"
	"github.com/ray1729/gpx-profile/pkg/grid"
	"github.com/ray1729/gpx-profile/pkg/metrics"
	"github.com/ray1729/gpx-profile/pkg/summary"
	"github.com/ray1729/gpx-profile/pkg/waypoints"
)

// Handler serves profiles of RideWithGPS routes:
//
//	GET /profile?routeId=N[&cycling=true][&waypoints=SRC]
type Handler struct {
	cfg    config.Config
	client *Client
	cache  *waypoints.Cache
	grid   grid.Converter
	logger *slog.Logger
}

type HandlerOption func(*Handler)

func WithClient(c *Client) HandlerOption {
	return func(h *Handler) {
		h.client = c
	}
}

func WithCache(c *waypoints.Cache) HandlerOption {
	return func(h *Handler) {
		h.cache = c
	}
}

func WithGrid(c grid.Converter) HandlerOption {
	return func(h *Handler) {
		h.grid = c
	}
}

func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

func NewHandler(cfg *config.Config, opt ...HandlerOption) *Handler {
	h := &Handler{
		cfg:    *cfg,
		client: DefaultClient,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opt {
		o(h)
	}
	if h.cache == nil {
		// Only the configured sources may be requested
		sources := h.cfg.Server.WaypointSources
		if sources == nil {
			sources = map[string]string{}
		}
		h.cache = waypoints.NewCache(waypoints.WithSources(sources), waypoints.WithCacheLogger(h.logger))
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawRouteId := q.Get("routeId")
	source := q.Get("waypoints")
	reqID := r.Header.Get("X-Request-Id")
	if reqID == "" {
		reqID = uuid.NewString()
	}
	w.Header().Set("X-Request-Id", reqID)
	log := h.logger.With("request", reqID, "routeId", rawRouteId)
	log.Info("Handling request", "waypoints", source, "cycling", q.Get("cycling"))
	if rawRouteId == "" {
		http.Error(w, "routeId is required", http.StatusBadRequest)
		return
	}
	routeId, err := strconv.Atoi(rawRouteId)
	if err != nil {
		log.Warn("Error parsing route id", "error", err)
		http.Error(w, fmt.Sprintf("Invalid routeId: %s", rawRouteId), http.StatusBadRequest)
		return
	}

	cfg := h.cfg
	if v := q.Get("cycling"); v != "" {
		cycling, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid cycling: %s", v), http.StatusBadRequest)
			return
		}
		cfg.Cycling = cycling
	}

	opts := []summary.Option{summary.WithLogger(log)}
	if h.grid != nil {
		opts = append(opts, summary.WithGrid(h.grid))
	}
	if source != "" {
		ix, err := h.cache.Get(source)
		if err != nil {
			log.Error("Error loading waypoints", "waypoints", source, "error", err)
			if errors.Is(err, waypoints.ErrInvalidSource) {
				http.Error(w, err.Error(), http.StatusBadRequest)
			} else {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		opts = append(opts, summary.WithWaypoints(ix))
	}

	data, err := h.client.FetchTrack(r.Context(), routeId)
	if err != nil {
		log.Error("Error fetching route", "error", err)
		var notFound *ErrNotFound
		var notPublic *ErrNotPublic
		switch {
		case errors.As(err, &notFound):
			metrics.RouteFetches.WithLabelValues("not_found").Inc()
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.As(err, &notPublic):
			metrics.RouteFetches.WithLabelValues("not_public").Inc()
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			metrics.RouteFetches.WithLabelValues("error").Inc()
			http.Error(w, err.Error(), http.StatusBadGateway)
		}
		return
	}
	metrics.RouteFetches.WithLabelValues("ok").Inc()

	summaries, err := summary.NewSummarizer(&cfg, opts...).SummarizeTrack(bytes.NewReader(data))
	if err != nil {
		log.Error("Error analyzing route", "error", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	metrics.TracksSummarized.Add(float64(len(summaries)))
	if len(summaries) > 0 {
		metrics.RecordStats(summaries[0].Stats)
	}
	result, err := json.Marshal(summaries)
	if err != nil {
		log.Error("Error marshalling JSON", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(result)
}
