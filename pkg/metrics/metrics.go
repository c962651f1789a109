package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "borderpos"

// Print job outcomes
const (
	PrintOK      = "ok"
	PrintFailed  = "failed"
	PrintDropped = "dropped"
)

// Metrics holds the register's collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	LatencyMS       *prometheus.HistogramVec
	TicketsRecorded prometheus.Counter
	SalesTotal      prometheus.Counter
	PrintJobs       *prometheus.CounterVec
}

func New(posID string) *Metrics {
	labels := prometheus.Labels{"pos_id": posID}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests.",
		ConstLabels: labels,
	}, []string{"handler", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Name:        "http_request_duration_ms",
		Help:        "HTTP request latency in milliseconds.",
		Buckets:     []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		ConstLabels: labels,
	}, []string{"handler"})
	tickets := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "tickets_recorded_total",
		Help:        "Sales persisted as tickets.",
		ConstLabels: labels,
	})
	sales := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "sales_amount_total",
		Help:        "Sum of ticket totals in local currency.",
		ConstLabels: labels,
	})
	prints := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Name:        "print_jobs_total",
		Help:        "Receipt print jobs by outcome.",
		ConstLabels: labels,
	}, []string{"result"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(requests, latency, tickets, sales, prints)

	return &Metrics{
		registry:        reg,
		Requests:        requests,
		LatencyMS:       latency,
		TicketsRecorded: tickets,
		SalesTotal:      sales,
		PrintJobs:       prints,
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveTicket counts a recorded sale of amount.
func (m *Metrics) ObserveTicket(amount float64) {
	if m == nil {
		return
	}
	m.TicketsRecorded.Inc()
	m.SalesTotal.Add(amount)
}

// ObservePrint counts a print job outcome.
func (m *Metrics) ObservePrint(result string) {
	if m == nil {
		return
	}
	m.PrintJobs.WithLabelValues(result).Inc()
}
