// Package metrics expone métricas Prometheus del inventario y del servidor HTTP.
package metrics

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/inventario-materiales/internal/application/usecase"
	"github.com/jhoicas/inventario-materiales/internal/domain"
	domaininv "github.com/jhoicas/inventario-materiales/internal/domain/inventory"
)

var _ usecase.OperationObserver = (*Metrics)(nil)

// Metrics agrupa los colectores sobre un registro propio (no el global) para poder crear varios en tests.
type Metrics struct {
	registry *prometheus.Registry

	OperationsTotal *prometheus.CounterVec
	Records         prometheus.Gauge
	Units           prometheus.Gauge
	StockValue      prometheus.Gauge
	RequestTotal    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New registra los colectores. withRuntime agrega los de proceso y runtime de Go.
func New(withRuntime bool) *Metrics {
	reg := prometheus.NewRegistry()
	if withRuntime {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		OperationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_operations_total",
				Help: "Total de operaciones sobre el inventario por resultado",
			},
			[]string{"operation", "result"},
		),
		Records: f.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_records",
			Help: "Cantidad de registros en el inventario",
		}),
		Units: f.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_units",
			Help: "Suma de cantidades en existencia",
		}),
		StockValue: f.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_stock_value",
			Help: "Valor total del stock (cantidad x precio)",
		}),
		RequestTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// ObserveOperation cuenta la operación con su resultado (ok o la clase de error).
func (m *Metrics) ObserveOperation(op string, err error) {
	m.OperationsTotal.WithLabelValues(op, Result(err)).Inc()
}

// ObserveInventory actualiza los gauges con el resumen del inventario.
func (m *Metrics) ObserveInventory(s domaininv.Summary) {
	m.Records.Set(float64(s.Records))
	m.Units.Set(float64(s.Units))
	m.StockValue.Set(s.StockValue.InexactFloat64())
}

// Result clasifica un error del dominio para la etiqueta "result".
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrParse):
		return "parse"
	case errors.Is(err, domain.ErrStorage):
		return "storage"
	default:
		return "error"
	}
}

// Handler sirve /metrics.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware registra conteo y duración por método, ruta y status.
// La ruta es el patrón registrado (/api/products/:id) para no explotar la cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()
		duration := time.Since(start).Seconds()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := NormalizePath(c.Route().Path)
		m.RequestTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(c.Method(), path).Observe(duration)
		return err
	}
}

// NormalizePath devuelve la ruta sin barra final; "root" para la raíz o rutas no registradas.
func NormalizePath(p string) string {
	p = strings.TrimSuffix(p, "/")
	if p == "" || p == "*" || p == "/*" {
		return "root"
	}
	return p
}
