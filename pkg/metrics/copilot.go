package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AlertMetrics counts alerts produced by performance scans.
type AlertMetrics struct {
	generated *prometheus.CounterVec
	published *prometheus.CounterVec
}

func NewAlertMetrics(reg prometheus.Registerer) *AlertMetrics {
	if reg == nil {
		return &AlertMetrics{}
	}
	generated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_generated_total",
		Help:      "Alerts produced by the performance engine.",
	}, []string{"type", "severity"})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_published_total",
		Help:      "Alerts fanned out to downstream subscribers.",
	}, []string{"result"})
	reg.MustRegister(generated, published)
	return &AlertMetrics{generated: generated, published: published}
}

func (m *AlertMetrics) IncGenerated(alertType, severity string) {
	if m == nil || m.generated == nil {
		return
	}
	m.generated.WithLabelValues(normalizeLabel(alertType), normalizeLabel(severity)).Inc()
}

func (m *AlertMetrics) IncPublished(ok bool) {
	if m == nil || m.published == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.published.WithLabelValues(result).Inc()
}

// RecommendationMetrics tracks where recommendations came from and why the
// advisor path was abandoned.
type RecommendationMetrics struct {
	generated *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
}

func NewRecommendationMetrics(reg prometheus.Registerer) *RecommendationMetrics {
	if reg == nil {
		return &RecommendationMetrics{}
	}
	generated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_generated_total",
		Help:      "Recommendations returned to callers by source.",
	}, []string{"source"})
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendation_fallbacks_total",
		Help:      "Advisor responses replaced by the rule-based scorer.",
	}, []string{"reason"})
	reg.MustRegister(generated, fallbacks)
	return &RecommendationMetrics{generated: generated, fallbacks: fallbacks}
}

func (m *RecommendationMetrics) AddGenerated(source string, count int) {
	if m == nil || m.generated == nil || count <= 0 {
		return
	}
	m.generated.WithLabelValues(normalizeLabel(source)).Add(float64(count))
}

func (m *RecommendationMetrics) IncFallback(reason string) {
	if m == nil || m.fallbacks == nil {
		return
	}
	m.fallbacks.WithLabelValues(normalizeLabel(reason)).Inc()
}

// CollectionMetrics counts rows ingested from upstream feeds.
type CollectionMetrics struct {
	rows   *prometheus.CounterVec
	errors *prometheus.CounterVec
}

func NewCollectionMetrics(reg prometheus.Registerer) *CollectionMetrics {
	if reg == nil {
		return &CollectionMetrics{}
	}
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collection_rows_total",
		Help:      "Rows written by the data collector.",
	}, []string{"source", "kind"})
	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collection_errors_total",
		Help:      "Provider fetch failures during collection.",
	}, []string{"source"})
	reg.MustRegister(rows, errs)
	return &CollectionMetrics{rows: rows, errors: errs}
}

func (m *CollectionMetrics) AddRows(source, kind string, count int) {
	if m == nil || m.rows == nil || count <= 0 {
		return
	}
	m.rows.WithLabelValues(normalizeLabel(source), normalizeLabel(kind)).Add(float64(count))
}

func (m *CollectionMetrics) IncError(source string) {
	if m == nil || m.errors == nil {
		return
	}
	m.errors.WithLabelValues(normalizeLabel(source)).Inc()
}
