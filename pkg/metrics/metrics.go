package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics сборщик метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueryDuration     *prometheus.HistogramVec
	DBOpenConnections   *prometheus.GaugeVec
	DBInUseConnections  *prometheus.GaugeVec
	DBIdleConnections   *prometheus.GaugeVec
	DBWaitCount         *prometheus.GaugeVec
	DBWaitDurationTotal *prometheus.GaugeVec

	// Бизнес-метрики
	AppointmentsTotal *prometheus.CounterVec
	BookingConflicts  *prometheus.CounterVec
	OccupiedMarkers   *prometheus.CounterVec
	FreeSlotsReturned *prometheus.HistogramVec
}

// New создает и регистрирует метрики в реестре по умолчанию
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{}),
		DBWaitDurationTotal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_duration_seconds_total",
			Help:        "Total time blocked waiting for a new connection",
			ConstLabels: constLabels,
		}, []string{}),
		AppointmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointments_total",
			Help:        "Appointment lifecycle operations",
			ConstLabels: constLabels,
		}, []string{"category", "action"}),
		BookingConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_conflicts_total",
			Help:        "Bookings rejected because the slot was taken at commit time",
			ConstLabels: constLabels,
		}, []string{"category"}),
		OccupiedMarkers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "occupied_markers_total",
			Help:        "Fully booked markers created or removed by reconciliation",
			ConstLabels: constLabels,
		}, []string{"category", "action"}),
		FreeSlotsReturned: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "free_slots_returned",
			Help:        "Number of free slots returned per availability request",
			ConstLabels: constLabels,
			Buckets:     []float64{0, 1, 5, 10, 20, 40},
		}, []string{"category"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.HTTPRequestsTotal,
			m.HTTPRequestDuration,
			m.DBQueryDuration,
			m.DBOpenConnections,
			m.DBInUseConnections,
			m.DBIdleConnections,
			m.DBWaitCount,
			m.DBWaitDurationTotal,
			m.AppointmentsTotal,
			m.BookingConflicts,
			m.OccupiedMarkers,
			m.FreeSlotsReturned,
		)
	}

	return m
}

// ObserveAppointment учитывает операцию над записью (created, updated, canceled, deleted)
func (m *Metrics) ObserveAppointment(category, action string) {
	if m == nil {
		return
	}
	m.AppointmentsTotal.WithLabelValues(category, action).Inc()
}

// ObserveConflict учитывает отказ в бронировании из-за занятого слота
func (m *Metrics) ObserveConflict(category string) {
	if m == nil {
		return
	}
	m.BookingConflicts.WithLabelValues(category).Inc()
}

// ObserveMarker учитывает создание или удаление маркера полной занятости
func (m *Metrics) ObserveMarker(category, action string) {
	if m == nil {
		return
	}
	m.OccupiedMarkers.WithLabelValues(category, action).Inc()
}

// ObserveFreeSlots учитывает количество отданных свободных слотов
func (m *Metrics) ObserveFreeSlots(category string, count int) {
	if m == nil {
		return
	}
	m.FreeSlotsReturned.WithLabelValues(category).Observe(float64(count))
}

// ObserveQuery учитывает длительность запроса к БД
func (m *Metrics) ObserveQuery(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(seconds)
}
