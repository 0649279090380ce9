package metrics

import (
	"strconv"

	"StockAdvisor/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	roleOutcomes *prometheus.CounterVec
	roleLatency  *prometheus.HistogramVec
	tierFetches  *prometheus.CounterVec
	tierLatency  *prometheus.HistogramVec
	cacheLookups *prometheus.CounterVec
	decisions    *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// New creates a recorder registered on reg (prometheus.DefaultRegisterer in production).
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		roleOutcomes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockadvisor_role_outcomes_total",
				Help: "Analyst role outcomes by status",
			},
			[]string{"role", "status"},
		),
		roleLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockadvisor_role_duration_seconds",
				Help:    "Analyst role call duration in seconds",
				Buckets: []float64{0.5, 1, 2, 4, 8, 12, 16, 20, 30},
			},
			[]string{"role"},
		),
		tierFetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockadvisor_tier_fetches_total",
				Help: "Market data tier attempts by result",
			},
			[]string{"tier", "result"},
		),
		tierLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockadvisor_tier_duration_seconds",
				Help:    "Market data tier attempt duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tier"},
		),
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockadvisor_cache_lookups_total",
				Help: "Cache lookups by result (hit, miss, shared)",
			},
			[]string{"result"},
		),
		decisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockadvisor_decisions_total",
				Help: "Decisions produced by verdict",
			},
			[]string{"verdict", "degraded"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockadvisor_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockadvisor_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 45, 60},
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordRoleOutcome(role string, status models.OutcomeStatus, seconds float64) {
	r.roleOutcomes.WithLabelValues(role, string(status)).Inc()
	r.roleLatency.WithLabelValues(role).Observe(seconds)
}

func (r *Recorder) RecordTierFetch(tier models.SourceTier, result string, seconds float64) {
	r.tierFetches.WithLabelValues(string(tier), result).Inc()
	r.tierLatency.WithLabelValues(string(tier)).Observe(seconds)
}

func (r *Recorder) RecordCacheLookup(result string) {
	r.cacheLookups.WithLabelValues(result).Inc()
}

func (r *Recorder) RecordDecision(verdict models.Stance, degraded bool) {
	r.decisions.WithLabelValues(string(verdict), strconv.FormatBool(degraded)).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordRoleOutcome(string, models.OutcomeStatus, float64) {}
func (Nop) RecordTierFetch(models.SourceTier, string, float64)      {}
func (Nop) RecordCacheLookup(string)                                {}
func (Nop) RecordDecision(models.Stance, bool)                      {}
func (Nop) RecordError(string)                                      {}
func (Nop) RecordLatency(string, float64)                           {}
