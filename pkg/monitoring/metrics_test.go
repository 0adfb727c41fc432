package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordOperation_TracksSuccessAndFailureCounts(t *testing.T) {
	mc := NewMetricsCollector()

	mc.RecordOperation(true, 10*time.Millisecond)
	mc.RecordOperation(false, 20*time.Millisecond)

	report := mc.GenerateReport()
	assert.Equal(t, int64(2), report.TotalOperations)
	assert.Equal(t, int64(1), report.SuccessfulOps)
	assert.Equal(t, int64(1), report.FailedOps)
	assert.Equal(t, 50.0, report.SuccessRate)
}

func TestRecordCounter_AccumulatesAcrossCalls(t *testing.T) {
	mc := NewMetricsCollector()

	mc.RecordCounter("retrieval_searches", 1, map[string]string{"mode": "hybrid"})
	mc.RecordCounter("retrieval_searches", 1, map[string]string{"mode": "hybrid"})

	metric, ok := mc.GetMetric("retrieval_searches")
	assert.True(t, ok)
	assert.Equal(t, 2.0, metric.Value)
}

func TestDisable_SuppressesRecording(t *testing.T) {
	mc := NewMetricsCollector()
	mc.Disable()

	mc.RecordOperation(true, time.Millisecond)

	report := mc.GenerateReport()
	assert.Equal(t, int64(0), report.TotalOperations)
}

func TestGenerateAlerts_CriticalOnHighCPU(t *testing.T) {
	mc := NewMetricsCollector()
	mc.cpuUsage = 95.0

	alerts := mc.generateAlerts()

	assert.Len(t, alerts, 1)
	assert.Equal(t, AlertLevelCritical, alerts[0].Level)
}
