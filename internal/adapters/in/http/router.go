package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"marketplace/internal/pkg/metrics"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const BaseURL = "/api/v1"

type RouterConfig struct {
	Auth AuthConfig
	// ValidateRequests turns on contract validation of /api/v1 requests.
	ValidateRequests bool
	LogLevel         string
}

// NewRouter builds the echo instance: health, metrics, swagger UI and the
// authenticated API group.
func NewRouter(
	cfg RouterConfig,
	server ServerInterface,
	contract *openapi3.T,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Logger.SetLevel(parseLogLevel(cfg.LogLevel))

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(recordMetrics(m))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	if contract != nil {
		if err := registerSwagger(contract); err != nil {
			return nil, err
		}
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api := e.Group(BaseURL, Authenticate(cfg.Auth))
	if cfg.ValidateRequests && contract != nil {
		validator, err := ValidateRequests(contract)
		if err != nil {
			return nil, err
		}
		api.Use(validator)
	}
	RegisterHandlers(api, server, "", RequireCarrier())

	return e, nil
}

func recordMetrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Response().Status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

func parseLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}
