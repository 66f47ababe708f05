package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Common metric attributes
const (
	AttrTenantID       = attribute.Key("tenant_id")
	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPRoute      = attribute.Key("http.route")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrDBOperation    = attribute.Key("db.operation")
	AttrDBTable        = attribute.Key("db.table")
	AttrAdjustmentType = attribute.Key("adjustment_type")
	AttrMessageType    = attribute.Key("message_type")
)

var (
	// HTTPDurationBuckets are bucket boundaries for HTTP request duration (seconds)
	HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	// DBDurationBuckets are bucket boundaries for database query duration (seconds)
	DBDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
)

// Counter is a monotonically increasing int64 instrument
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a counter on meter
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, err
	}
	return &Counter{counter: c}, nil
}

// Add increments the counter by value
func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// Inc increments the counter by one
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, attrs...)
}

// Histogram records a float64 distribution
type Histogram struct {
	histogram metric.Float64Histogram
}

// HistogramOpts configures NewHistogram
type HistogramOpts struct {
	Name        string
	Description string
	Unit        string
	Boundaries  []float64
}

// NewHistogram creates a histogram on meter
func NewHistogram(meter metric.Meter, opts HistogramOpts) (*Histogram, error) {
	options := []metric.Float64HistogramOption{
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	}
	if len(opts.Boundaries) > 0 {
		options = append(options, metric.WithExplicitBucketBoundaries(opts.Boundaries...))
	}
	h, err := meter.Float64Histogram(opts.Name, options...)
	if err != nil {
		return nil, err
	}
	return &Histogram{histogram: h}, nil
}

// Record adds a value to the distribution
func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

// RecordDuration records d in seconds
func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.Record(ctx, d.Seconds(), attrs...)
}

// UpDownCounter tracks a value that moves both ways, such as open connections
type UpDownCounter struct {
	counter metric.Int64UpDownCounter
}

// NewUpDownCounter creates an up-down counter on meter
func NewUpDownCounter(meter metric.Meter, name, description, unit string) (*UpDownCounter, error) {
	c, err := meter.Int64UpDownCounter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, err
	}
	return &UpDownCounter{counter: c}, nil
}

// Add moves the value by delta
func (c *UpDownCounter) Add(ctx context.Context, delta int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, delta, metric.WithAttributes(attrs...))
}

// DomainMetrics are the business counters fed by domain event handlers
type DomainMetrics struct {
	adjustmentsApproved *Counter
	adjustmentCost      *Histogram
	messagesSent        *Counter
	depositsMatured     *Counter
	hubConnections      *UpDownCounter
}

// NewDomainMetrics creates the business instruments on meter
func NewDomainMetrics(meter metric.Meter) (*DomainMetrics, error) {
	adjustmentsApproved, err := NewCounter(meter, "stock_adjustments_approved_total",
		"Number of approved stock adjustments", "{adjustment}")
	if err != nil {
		return nil, err
	}
	adjustmentCost, err := NewHistogram(meter, HistogramOpts{
		Name:        "stock_adjustment_cost_impact",
		Description: "Absolute cost impact of approved stock adjustments",
		Unit:        "{currency}",
	})
	if err != nil {
		return nil, err
	}
	messagesSent, err := NewCounter(meter, "messaging_messages_sent_total",
		"Number of chat messages sent", "{message}")
	if err != nil {
		return nil, err
	}
	depositsMatured, err := NewCounter(meter, "fixed_deposits_matured_total",
		"Number of fixed deposits moved to matured by the maturity job", "{deposit}")
	if err != nil {
		return nil, err
	}
	hubConnections, err := NewUpDownCounter(meter, "messaging_hub_connections",
		"Open messaging hub websocket connections", "{connection}")
	if err != nil {
		return nil, err
	}

	return &DomainMetrics{
		adjustmentsApproved: adjustmentsApproved,
		adjustmentCost:      adjustmentCost,
		messagesSent:        messagesSent,
		depositsMatured:     depositsMatured,
		hubConnections:      hubConnections,
	}, nil
}

// RecordStockAdjustmentApproved counts an approved adjustment and its cost impact
func (m *DomainMetrics) RecordStockAdjustmentApproved(ctx context.Context, tenantID uuid.UUID, adjustmentType string, costImpact decimal.Decimal) {
	attrs := []attribute.KeyValue{AttrTenantID.String(tenantID.String()), AttrAdjustmentType.String(adjustmentType)}
	m.adjustmentsApproved.Inc(ctx, attrs...)
	m.adjustmentCost.Record(ctx, costImpact.Abs().InexactFloat64(), attrs...)
}

// RecordMessageSent counts a sent message
func (m *DomainMetrics) RecordMessageSent(ctx context.Context, tenantID uuid.UUID, messageType string) {
	m.messagesSent.Inc(ctx, AttrTenantID.String(tenantID.String()), AttrMessageType.String(messageType))
}

// RecordDepositsMatured counts deposits matured in one job run
func (m *DomainMetrics) RecordDepositsMatured(ctx context.Context, count int) {
	if count > 0 {
		m.depositsMatured.Add(ctx, int64(count))
	}
}

// HubConnectionOpened tracks a new hub connection
func (m *DomainMetrics) HubConnectionOpened(ctx context.Context) {
	m.hubConnections.Add(ctx, 1)
}

// HubConnectionClosed tracks a closed hub connection
func (m *DomainMetrics) HubConnectionClosed(ctx context.Context) {
	m.hubConnections.Add(ctx, -1)
}
