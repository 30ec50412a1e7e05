// Package observe wires OpenTelemetry metrics for the interview service and
// exposes them to Prometheus.
package observe

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/yoockh/yoointerview"

// Metrics holds every instrument the service records. All fields are safe for
// concurrent use.
type Metrics struct {
	// SessionsCreated counts interviews scheduled by recruiters.
	SessionsCreated metric.Int64Counter

	// SessionOutcomes counts terminal sessions. Attributes: state, reason.
	SessionOutcomes metric.Int64Counter

	// ActiveSessions tracks sessions held in memory.
	ActiveSessions metric.Int64UpDownCounter

	// OverallScore records the overall score of completed interviews.
	// Attribute: recommendation.
	OverallScore metric.Int64Histogram

	// Answers counts recorded answers. Attribute: bucket.
	Answers metric.Int64Counter

	// Notifications counts outcome emails. Attributes: recommendation, status.
	Notifications metric.Int64Counter

	STTDuration metric.Float64Histogram
	LLMDuration metric.Float64Histogram

	// HTTPRequestDuration attributes: method, path, status.
	HTTPRequestDuration metric.Float64Histogram
}

var (
	latencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
	scoreBuckets   = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
)

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.SessionsCreated, err = m.Int64Counter("yoointerview.sessions.created",
		metric.WithDescription("Interviews scheduled."),
	); err != nil {
		return nil, err
	}
	if met.SessionOutcomes, err = m.Int64Counter("yoointerview.sessions.outcomes",
		metric.WithDescription("Interviews that reached a terminal state by state and reason."),
	); err != nil {
		return nil, err
	}
	if met.ActiveSessions, err = m.Int64UpDownCounter("yoointerview.sessions.active",
		metric.WithDescription("Interviews currently held in memory."),
	); err != nil {
		return nil, err
	}
	if met.OverallScore, err = m.Int64Histogram("yoointerview.feedback.overall_score",
		metric.WithDescription("Overall score of completed interviews."),
		metric.WithExplicitBucketBoundaries(scoreBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Answers, err = m.Int64Counter("yoointerview.answers",
		metric.WithDescription("Recorded answers by duration bucket."),
	); err != nil {
		return nil, err
	}
	if met.Notifications, err = m.Int64Counter("yoointerview.notifications",
		metric.WithDescription("Outcome emails by recommendation and status."),
	); err != nil {
		return nil, err
	}
	if met.STTDuration, err = m.Float64Histogram("yoointerview.stt.duration",
		metric.WithDescription("Latency of answer transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.LLMDuration, err = m.Float64Histogram("yoointerview.llm.duration",
		metric.WithDescription("Latency of answer assessment."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("yoointerview.http.request.duration",
		metric.WithDescription("HTTP request latency by method, route and status."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// NopMetrics returns instruments that record nothing.
func NopMetrics() *Metrics {
	m, err := NewMetrics(noop.NewMeterProvider())
	if err != nil {
		panic(err)
	}
	return m
}
