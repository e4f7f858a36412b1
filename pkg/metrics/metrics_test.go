package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordResolution(t *testing.T) {
	c := NewCollector()

	c.RecordResolution(1, false)
	c.RecordResolution(1, true)
	c.RecordResolution(2, true)

	s := c.Snapshot()
	assert.Equal(t, 3, s.TotalRequests)
	assert.Equal(t, 2, s.L1Resolutions)
	assert.Equal(t, 1, s.L2Escalations)
	assert.Equal(t, 2, s.NegativeSignals)
	assert.InDelta(t, 2.0/3.0, s.L1Rate, 1e-9)
	assert.InDelta(t, 1.0/3.0, s.L2Rate, 1e-9)
}

func TestSnapshotEmpty(t *testing.T) {
	s := NewCollector().Snapshot()

	assert.Zero(t, s.TotalRequests)
	assert.Zero(t, s.L1Rate)
	assert.Zero(t, s.L2Rate)
}

func TestReport(t *testing.T) {
	c := NewCollector()
	c.RecordResolution(1, false)
	c.RecordResolution(2, true)

	report := c.Report()
	assert.Contains(t, report, "SupportPilot Metrics Report")
	assert.Contains(t, report, "Total Requests: 2")
	assert.Contains(t, report, "L1 (Knowledge Base): 1 (50.0%)")
	assert.Contains(t, report, "L2 (Ticket Created): 1 (50.0%)")
	assert.Contains(t, report, "Negative Signals: 1")
}

func TestRecordResolutionConcurrent(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				c.RecordResolution(1, false)
			} else {
				c.RecordResolution(2, true)
			}
		}(i)
	}
	wg.Wait()

	s := c.Snapshot()
	assert.Equal(t, 100, s.TotalRequests)
	assert.Equal(t, 50, s.L1Resolutions)
	assert.Equal(t, 50, s.L2Escalations)
	assert.Equal(t, 50, s.NegativeSignals)
}
