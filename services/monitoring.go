package services

import (
	"fmt"
	"strconv"
	"time"

	serviceContext "github.com/alphabatem/common/context"
	"github.com/caarlos0/env/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mindforge/forge_api/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	MONITORING_SVC = "monitoring_svc"
	SERVICE_NAME   = "mindforge_api"

	metricsNamespace = "mindforge"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	httpRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "http_requests_in_flight",
		Help:      "Requests currently being served",
	})

	httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "http_request_duration_seconds",
		Help:      "Request latency by route",
		// Arena routes wait on the oracle.
		Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"route", "method"})
)

var (
	energyConsumedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "energy_consumed_total",
		Help:      "Energy units spent on arena runs",
	})

	energyRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "energy_rejected_total",
		Help:      "Energy spends refused, by reason",
	}, []string{"reason"})

	streakCelebrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "streak_celebrations_total",
		Help:      "Daily streak checks that triggered a celebration",
	})

	oracleAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "oracle_attempts_total",
		Help:      "Calls to generation backends by model and outcome",
	}, []string{"model", "outcome"})

	oracleFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "oracle_fallbacks_total",
		Help:      "Oracle operations answered with offline content",
	}, []string{"operation"})

	scenarioResultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "scenario_results_total",
		Help:      "Scenario results recorded",
	})
)

type MonitoringConfig struct {
	Port    int  `env:"PROMETHEUS_PORT" envDefault:"2112"`
	Enabled bool `env:"PROMETHEUS_ENABLED" envDefault:"true"`
}

// MonitoringService serves /metrics on PROMETHEUS_PORT, apart from the API.
type MonitoringService struct {
	serviceContext.DefaultService

	cfg      MonitoringConfig
	registry *prometheus.Registry
	server   *fiber.App
}

func (svc *MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Configure(ctx *serviceContext.Context) error {
	if err := env.Parse(&svc.cfg); err != nil {
		return fmt.Errorf("failed to parse monitoring config: %w", err)
	}
	svc.registry = NewMetricsRegistry()
	return svc.DefaultService.Configure(ctx)
}

func (svc *MonitoringService) Start() error {
	if !svc.cfg.Enabled {
		log.Info().Msg("Prometheus metrics server disabled")
		return nil
	}

	svc.server = fiber.New(fiber.Config{DisableStartupMessage: true})
	svc.server.Use(recover.New())
	svc.server.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(svc.registry, promhttp.HandlerOpts{})))
	svc.server.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"service":   SERVICE_NAME,
			"timestamp": time.Now().Unix(),
		})
	})

	go func() {
		if err := svc.server.Listen(fmt.Sprintf(":%d", svc.cfg.Port)); err != nil {
			log.Error().Err(err).Msg("Prometheus metrics server stopped")
		}
	}()

	log.Info().Int("port", svc.cfg.Port).Msg("Prometheus metrics server started")
	return nil
}

func (svc *MonitoringService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// NewMetricsRegistry registers the runtime collectors and every service metric.
func NewMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),

		httpRequestsTotal,
		httpRequestsInFlight,
		httpRequestDuration,

		energyConsumedTotal,
		energyRejectedTotal,
		streakCelebrationsTotal,
		oracleAttemptsTotal,
		oracleFallbacksTotal,
		scenarioResultsTotal,
	)

	energyRejectedTotal.WithLabelValues(rejectEmpty)
	energyRejectedTotal.WithLabelValues(rejectConflict)
	return reg
}

// RecordOracleAttempt counts one call to a generation backend.
func RecordOracleAttempt(model, outcome string) {
	oracleAttemptsTotal.WithLabelValues(model, outcome).Inc()
}

// RecordOracleFallback counts an operation that answered offline.
func RecordOracleFallback(operation string, _ error) {
	oracleFallbacksTotal.WithLabelValues(operation).Inc()
}

// MonitoringMiddleware records latency and status per route pattern. A nil
// service still records into the package collectors.
func MonitoringMiddleware(_ *MonitoringService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = shared.GetAppError(err).StatusCode
		}

		route := c.Route().Path
		method := c.Method()
		httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
		return err
	}
}
