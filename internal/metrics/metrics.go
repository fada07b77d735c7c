package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "aichat_messages_sent_total",
		Help: "Total number of human-authored messages stored",
	})
	AutoRepliesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aichat_auto_replies_total",
		Help: "Auto-replies stored, by outcome (generated or fallback)",
	}, []string{"outcome"})
	CompletionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "aichat_completion_duration_seconds",
		Help:    "Latency of completion gateway calls",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	})
	WsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "aichat_ws_connections",
		Help: "Current number of active websocket connections",
	})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

const (
	OutcomeGenerated = "generated"
	OutcomeFallback  = "fallback"
)

func init() {
	prometheus.MustRegister(MessagesSentTotal, AutoRepliesTotal, CompletionDuration, WsConnections, HttpRequestsTotal, HttpRequestDuration)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack keeps websocket upgrades working behind the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

// Middleware records request counts and latency labelled by route template,
// so /contacts/{id} stays one series regardless of the id.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		labels := prometheus.Labels{"method": r.Method, "path": path, "status": strconv.Itoa(rec.status)}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	})
}
