package apiclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/facturaec/dashboard/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records one counter increment and one latency sample per backend call
type Metrics struct {
	requests *telemetry.Counter
	duration *telemetry.Histogram
	breaker  *telemetry.Gauge
}

// NewMetrics registers the backend call instruments on meter
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		return nil, telemetry.ErrMeterNil
	}

	requests, err := telemetry.NewCounter(meter,
		"dashboard.backend.requests",
		"Backend API calls by method, route and status class",
		"{request}",
	)
	if err != nil {
		return nil, err
	}

	duration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "dashboard.backend.duration",
		Description: "Backend API call latency",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	breaker, err := telemetry.NewGauge(meter,
		"dashboard.backend.breaker_state",
		"Backend circuit breaker state: 0 closed, 1 open, 2 half-open",
		"1",
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{requests: requests, duration: duration, breaker: breaker}, nil
}

// Observe records a finished call
func (m *Metrics) Observe(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		telemetry.AttrHTTPMethod.String(method),
		telemetry.AttrHTTPRoute.String(route),
		telemetry.AttrStatusClass.String(StatusClass(status)),
	}
	m.requests.Inc(ctx, attrs...)
	m.duration.RecordDuration(ctx, elapsed, attrs...)
}

// BreakerChanged records the breaker's new state
func (m *Metrics) BreakerChanged(state BreakerState) {
	if m == nil {
		return
	}
	m.breaker.Record(context.Background(), int64(state))
}

// StatusClass buckets a status code as 2xx, 4xx, 5xx, or "error" when no response arrived
func StatusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return fmt.Sprintf("%dxx", status/100)
}

// RouteTemplate replaces identifier segments of path with ":id" so metric
// and span names stay low-cardinality, e.g. /facturas/42/estado → /facturas/:id/estado
func RouteTemplate(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if isIdentifier(s) {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	digits, hex := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') || r == '-':
			hex++
		default:
			return false
		}
	}
	if digits == len(s) {
		return true
	}
	// UUIDs and other long hexadecimal ids
	return len(s) >= 16 && digits > 0
}
