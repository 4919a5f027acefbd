// Package metrics exposes Prometheus metrics for the profile server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ray1729/gpx-profile/pkg/track"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gpxprofile",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gpxprofile",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "path"})

	RouteFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gpxprofile",
		Subsystem: "rwgps",
		Name:      "route_fetches_total",
		Help:      "RideWithGPS route downloads by result",
	}, []string{"result"})

	TracksSummarized = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gpxprofile",
		Subsystem: "track",
		Name:      "summarized_total",
		Help:      "Total tracks summarised",
	})

	Points = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gpxprofile",
		Subsystem: "track",
		Name:      "points_total",
		Help:      "Track points processed by outcome",
	}, []string{"outcome"})

	SegmentsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gpxprofile",
		Subsystem: "track",
		Name:      "segments_discarded_total",
		Help:      "Segments with too few usable points to make a track",
	})
)

// RecordStats adds the counts from a track builder.
func RecordStats(s track.Stats) {
	Points.WithLabelValues("accepted").Add(float64(s.Accepted))
	Points.WithLabelValues("duplicate").Add(float64(s.Duplicates))
	Points.WithLabelValues("jitter").Add(float64(s.Jitter))
	Points.WithLabelValues("glitch").Add(float64(s.Glitches))
	SegmentsDiscarded.Add(float64(s.Discarded))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request metrics under path, which should be the
// pattern next is registered for rather than the raw request path.
func Middleware(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the Prometheus /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
