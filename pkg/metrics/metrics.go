// Package metrics expone los contadores Prometheus del servicio.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa los colectores registrados en un Registerer.
type Metrics struct {
	service string

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	TasksCreated        prometheus.Counter
	NotificationsFailed prometheus.Counter
	AccessDenied        *prometheus.CounterVec
}

// New crea y registra los colectores en reg.
func New(service string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		service: service,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path", "status"}),
		TasksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasks_created_total",
			Help: "Tasks persisted by the task creation service",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "task_notifications_failed_total",
			Help: "Task created notifications that could not be published",
		}),
		AccessDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "access_denied_total",
			Help: "Row access decisions that denied the principal",
		}, []string{"entity", "op"}),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.TasksCreated, m.NotificationsFailed, m.AccessDenied)
	return m
}

// NewNop crea colectores sin registrar (tests).
func NewNop() *Metrics {
	return New("test", prometheus.NewRegistry())
}

// Middleware registra conteo y duración por ruta y estado.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		labels := []string{m.service, c.Method(), path, strconv.Itoa(status)}
		m.requests.WithLabelValues(labels...).Inc()
		m.requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// Denied cuenta una decisión de acceso negativa.
func (m *Metrics) Denied(entity, op string) {
	if m == nil {
		return
	}
	m.AccessDenied.WithLabelValues(entity, op).Inc()
}
