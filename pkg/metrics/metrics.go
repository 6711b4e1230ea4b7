package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus registry and the portal instruments.
type Metrics struct {
	registry *prometheus.Registry

	httpReqCnt *prometheus.CounterVec
	httpDur    *prometheus.HistogramVec

	syncOps       *prometheus.CounterVec
	cloudFailures *prometheus.CounterVec
}

// New creates a registry with process/go collectors plus the portal instruments.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "portal"
	}
	r := prometheus.NewRegistry()
	// Register standard process and Go collectors
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds"}, []string{"method", "route", "status"})
	syncOps := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "sync_operations_total"}, []string{"collection", "op"})
	cloudFailures := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "cloud_failures_total"}, []string{"collection", "op"})
	r.MustRegister(httpReqCnt, httpDur, syncOps, cloudFailures)

	return &Metrics{
		registry:      r,
		httpReqCnt:    httpReqCnt,
		httpDur:       httpDur,
		syncOps:       syncOps,
		cloudFailures: cloudFailures,
	}
}

// ObserveSyncOp counts one sync engine operation on a collection.
func (m *Metrics) ObserveSyncOp(collection, op string) {
	if m == nil {
		return
	}
	m.syncOps.WithLabelValues(collection, op).Inc()
}

// ObserveCloudFailure counts one swallowed remote mirror failure.
func (m *Metrics) ObserveCloudFailure(collection, op string) {
	if m == nil {
		return
	}
	m.cloudFailures.WithLabelValues(collection, op).Inc()
}

// GinMiddleware records request count and duration per route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
