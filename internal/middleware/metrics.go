package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "viewtube_redis_errors_total",
	Help: "Total number of Redis errors by command",
}, []string{"command"})

// BlobOperations counts blob store operations by type and outcome.
var BlobOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "viewtube_blob_operations_total",
	Help: "Total number of blob store operations by operation and outcome",
}, []string{"operation", "outcome"})

// InitMetrics creates the Prometheus HTTP metrics middleware for the given service name.
func InitMetrics(service string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(service)
}

// MetricsMiddleware wraps the Prometheus middleware as a Fiber handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
