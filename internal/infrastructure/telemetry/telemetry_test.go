package telemetry

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/erp/lobapi/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestMeter(t *testing.T) (*metric.ManualReader, *metric.MeterProvider) {
	t.Helper()
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collect(t *testing.T, reader *metric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestSetup_Disabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Meter("test"))
	assert.False(t, p.LogCore(zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
	p.EnableSpanProfiles()
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestLevelCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelCore{Core: inner, min: zapcore.WarnLevel}
	log := zap.New(core).With(zap.String("component", "test"))

	log.Info("dropped")
	log.Warn("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "test", entry.ContextMap()["component"])
}

func TestDomainMetrics(t *testing.T) {
	reader, provider := newTestMeter(t)
	m, err := NewDomainMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	tenantID := uuid.New()
	m.RecordStockAdjustmentApproved(ctx, tenantID, "DAMAGE", decimal.NewFromInt(-150))
	m.RecordStockAdjustmentApproved(ctx, tenantID, "FOUND", decimal.NewFromInt(20))
	m.RecordMessageSent(ctx, tenantID, "TEXT")
	m.RecordDepositsMatured(ctx, 3)
	m.RecordDepositsMatured(ctx, 0)
	m.HubConnectionOpened(ctx)
	m.HubConnectionOpened(ctx)
	m.HubConnectionClosed(ctx)

	metrics := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, metrics["stock_adjustments_approved_total"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["messaging_messages_sent_total"]))
	assert.Equal(t, int64(3), sumOf(t, metrics["fixed_deposits_matured_total"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["messaging_hub_connections"]))

	hist, ok := metrics["stock_adjustment_cost_impact"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var total float64
	for _, dp := range hist.DataPoints {
		total += dp.Sum
	}
	assert.InDelta(t, 170.0, total, 0.001)
}

type widget struct {
	ID   uint
	Name string
}

func TestInstrumentDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))

	reader, provider := newTestMeter(t)
	core, logs := observer.New(zapcore.WarnLevel)
	require.NoError(t, InstrumentDB(db, provider.Meter("db"), DBConfig{TraceEnabled: true, SlowQueryThreshold: 1}, zap.New(core)))

	require.NoError(t, db.Create(&widget{Name: "bolt"}).Error)
	var found []widget
	require.NoError(t, db.Find(&found).Error)

	metrics := collect(t, reader)
	assert.GreaterOrEqual(t, sumOf(t, metrics["db_query_total"]), int64(2))
	assert.Contains(t, metrics, "db_query_duration_seconds")
	assert.Contains(t, metrics, "db_pool_connections")
	assert.NotZero(t, logs.FilterMessage("Slow query").Len())
}

func TestStartProfiler_NoAddress(t *testing.T) {
	p, err := StartProfiler("lobapi", "", zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.Running())
	assert.NoError(t, p.Stop())
}

func TestWithLabels(t *testing.T) {
	var got string
	WithLabels(context.Background(), map[string]string{"route": "/api/v1/hr/employees", "tenant": ""}, func(ctx context.Context) {
		got, _ = pprof.Label(ctx, "route")
		_, hasTenant := pprof.Label(ctx, "tenant")
		assert.False(t, hasTenant)
	})
	assert.Equal(t, "/api/v1/hr/employees", got)

	called := false
	WithLabels(context.Background(), nil, func(context.Context) { called = true })
	assert.True(t, called)
}
