// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	httpStatus       *prometheus.CounterVec
	tripSearches     prometheus.Counter
	bookingsCreated  prometheus.Counter
	bookingConflicts prometheus.Counter
}

// NewCollector registers the API counters on the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tsharaki_http_status_total",
			Help: "Responses by HTTP status code.",
		}, []string{"status_code"}),
		tripSearches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tsharaki_trip_searches_total",
			Help: "Trip search requests served.",
		}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tsharaki_bookings_created_total",
			Help: "Bookings successfully placed.",
		}),
		bookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tsharaki_booking_conflicts_total",
			Help: "Booking attempts rejected as duplicates.",
		}),
	}

	reg.MustRegister(c.httpStatus, c.tripSearches, c.bookingsCreated, c.bookingConflicts)
	return c
}

func (c *Collector) RecordHTTPStatus(code int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (c *Collector) RecordTripSearch() {
	c.tripSearches.Inc()
}

func (c *Collector) RecordBookingCreated() {
	c.bookingsCreated.Inc()
}

func (c *Collector) RecordBookingConflict() {
	c.bookingConflicts.Inc()
}

// Handler serves the registry in Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
