package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ModerationMetrics records reconciliation and moderation activity.
type ModerationMetrics struct {
	refreshDuration *prometheus.HistogramVec
	itemsBySource   *prometheus.GaugeVec
	sourceFailures  *prometheus.CounterVec
	actions         *prometheus.CounterVec
	notifications   *prometheus.CounterVec
}

// NewModerationMetrics registers the moderation metrics on the provided registerer.
func NewModerationMetrics(reg prometheus.Registerer) *ModerationMetrics {
	if reg == nil {
		return &ModerationMetrics{}
	}
	refreshDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "media_refresh_duration_seconds",
		Help:    "Duration of media source aggregation passes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	itemsBySource := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "media_items",
		Help: "Media items discovered per source on the last aggregation pass.",
	}, []string{"source"})
	sourceFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "media_source_failures",
		Help: "Source adapter failures during aggregation.",
	}, []string{"source"})
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "media_moderation_actions",
		Help: "Moderation actions applied to media items.",
	}, []string{"action"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "media_notifications",
		Help: "Owner notification attempts by delivery method and outcome.",
	}, []string{"method", "outcome"})
	reg.MustRegister(refreshDuration, itemsBySource, sourceFailures, actions, notifications)
	return &ModerationMetrics{
		refreshDuration: refreshDuration,
		itemsBySource:   itemsBySource,
		sourceFailures:  sourceFailures,
		actions:         actions,
		notifications:   notifications,
	}
}

// ObserveRefresh records the duration of one source's aggregation pass.
func (m *ModerationMetrics) ObserveRefresh(source string, duration time.Duration) {
	if m == nil || m.refreshDuration == nil {
		return
	}
	m.refreshDuration.WithLabelValues(normalizeLabel(source)).Observe(duration.Seconds())
}

// SetItems records how many items a source produced on the last pass.
func (m *ModerationMetrics) SetItems(source string, count int) {
	if m == nil || m.itemsBySource == nil {
		return
	}
	m.itemsBySource.WithLabelValues(normalizeLabel(source)).Set(float64(count))
}

// IncSourceFailure increments the failure counter for the named source.
func (m *ModerationMetrics) IncSourceFailure(source string) {
	if m == nil || m.sourceFailures == nil {
		return
	}
	m.sourceFailures.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncAction increments the counter for a moderation action.
func (m *ModerationMetrics) IncAction(action string) {
	if m == nil || m.actions == nil {
		return
	}
	m.actions.WithLabelValues(normalizeLabel(action)).Inc()
}

// IncNotification increments the notification counter for a method/outcome pair.
func (m *ModerationMetrics) IncNotification(method, outcome string) {
	if m == nil || m.notifications == nil {
		return
	}
	m.notifications.WithLabelValues(normalizeLabel(method), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
