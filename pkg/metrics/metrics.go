// Package metrics aggregates resolution-level and dissatisfaction counters
// across conversation turns.
package metrics

import (
	"fmt"
	"strings"
	"sync"
)

// Collector counts L1 (knowledge base) resolutions vs L2 (ticket) escalations
// and the turns on which a negative signal had been observed.
type Collector struct {
	mu              sync.Mutex
	totalRequests   int
	l1Resolutions   int
	l2Escalations   int
	negativeSignals int
}

func NewCollector() *Collector {
	return &Collector{}
}

// RecordResolution records one completed turn. Level 1 means the knowledge
// base answered; level 2 means the conversation has escalated to a ticket.
func (c *Collector) RecordResolution(level int, hadNegativeSignal bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalRequests++
	switch level {
	case 1:
		c.l1Resolutions++
	case 2:
		c.l2Escalations++
	}
	if hadNegativeSignal {
		c.negativeSignals++
	}
}

// Snapshot is a point-in-time copy of the counters for the metrics API.
type Snapshot struct {
	TotalRequests   int     `json:"total_requests"`
	L1Resolutions   int     `json:"l1_resolutions"`
	L2Escalations   int     `json:"l2_escalations"`
	L1Rate          float64 `json:"l1_rate"`
	L2Rate          float64 `json:"l2_rate"`
	NegativeSignals int     `json:"negative_signals_detected"`
}

func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		TotalRequests:   c.totalRequests,
		L1Resolutions:   c.l1Resolutions,
		L2Escalations:   c.l2Escalations,
		NegativeSignals: c.negativeSignals,
	}
	if c.totalRequests > 0 {
		s.L1Rate = float64(c.l1Resolutions) / float64(c.totalRequests)
		s.L2Rate = float64(c.l2Escalations) / float64(c.totalRequests)
	}
	return s
}

// Report renders the human-readable metrics block printed by /status.
func (c *Collector) Report() string {
	s := c.Snapshot()

	var b strings.Builder
	b.WriteString("==========================================\n")
	b.WriteString("        SupportPilot Metrics Report\n")
	b.WriteString("==========================================\n\n")
	fmt.Fprintf(&b, "Total Requests: %d\n\n", s.TotalRequests)
	b.WriteString("Resolution Breakdown:\n")
	fmt.Fprintf(&b, "  - L1 (Knowledge Base): %d (%.1f%%)\n", s.L1Resolutions, s.L1Rate*100)
	fmt.Fprintf(&b, "  - L2 (Ticket Created): %d (%.1f%%)\n\n", s.L2Escalations, s.L2Rate*100)
	b.WriteString("User Satisfaction:\n")
	fmt.Fprintf(&b, "  - Negative Signals: %d", s.NegativeSignals)
	return b.String()
}
