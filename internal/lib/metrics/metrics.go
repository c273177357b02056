// Package metrics объявляет метрики Prometheus сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// ResultOK — метка успешной операции.
	ResultOK = "ok"
	// ResultError — метка неуспешной операции.
	ResultError = "error"
)

var (
	// HTTPRequests считает обработанные HTTP-запросы.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "surchef",
		Name:      "http_requests_total",
		Help:      "Number of handled HTTP requests.",
	}, []string{"method", "route", "status"})

	// HTTPDuration — длительность обработки HTTP-запросов.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "surchef",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// DashboardWrites считает записи дашборда по провайдеру и результату.
	DashboardWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "surchef",
		Name:      "dashboard_writes_total",
		Help:      "Dashboard merge-patch writes.",
	}, []string{"provider", "result"})

	// AutosaveWrites считает сохранения, выполненные координатором автосохранения.
	AutosaveWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "surchef",
		Name:      "autosave_writes_total",
		Help:      "Debounced autosave writes.",
	}, []string{"result"})

	// CatalogRequests считает обращения к внешнему каталогу рецептов.
	CatalogRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "surchef",
		Name:      "catalog_requests_total",
		Help:      "Recipe catalog calls by operation and result.",
	}, []string{"operation", "result"})
)

// Result возвращает метку результата для ошибки.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
