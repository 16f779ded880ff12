package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NumberCounter returns the number of registered numbers.
type NumberCounter interface {
	Count(ctx context.Context) (int64, error)
}

// CallEventStatusCounter returns call-event counts grouped by status.
type CallEventStatusCounter interface {
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// MessageDirectionCounter returns message counts grouped by direction.
type MessageDirectionCounter interface {
	CountByDirection(ctx context.Context) (map[string]int64, error)
}

// Collector is a prometheus.Collector that gathers CallCatch metrics at scrape time.
type Collector struct {
	numbers   NumberCounter
	events    CallEventStatusCounter
	messages  MessageDirectionCounter
	startTime time.Time

	// Metric descriptors.
	numbersDesc    *prometheus.Desc
	callEventsDesc *prometheus.Desc
	messagesDesc   *prometheus.Desc
	uptimeDesc     *prometheus.Desc
}

// NewCollector creates a new metrics collector. Any provider may be nil if unavailable.
func NewCollector(
	numbers NumberCounter,
	events CallEventStatusCounter,
	messages MessageDirectionCounter,
	startTime time.Time,
) *Collector {
	return &Collector{
		numbers:   numbers,
		events:    events,
		messages:  messages,
		startTime: startTime,

		numbersDesc: prometheus.NewDesc(
			"callcatch_registered_numbers",
			"Number of registered numbers across all tenants",
			nil, nil,
		),
		callEventsDesc: prometheus.NewDesc(
			"callcatch_call_events_total",
			"Total call events ingested, by call status",
			[]string{"status"}, nil,
		),
		messagesDesc: prometheus.NewDesc(
			"callcatch_messages_total",
			"Total SMS messages on record, by direction",
			[]string{"direction"}, nil,
		),
		uptimeDesc: prometheus.NewDesc(
			"callcatch_uptime_seconds",
			"Seconds since the CallCatch process started",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.numbersDesc
	ch <- c.callEventsDesc
	ch <- c.messagesDesc
	ch <- c.uptimeDesc
}

// Collect implements prometheus.Collector. It queries all providers at scrape time.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Registered numbers gauge.
	if c.numbers != nil {
		count, err := c.numbers.Count(ctx)
		if err != nil {
			slog.Error("metrics: failed to count numbers", "error", err)
		} else {
			ch <- prometheus.MustNewConstMetric(
				c.numbersDesc, prometheus.GaugeValue,
				float64(count),
			)
		}
	}

	// Call volume counters by status (one metric per observed status).
	if c.events != nil {
		counts, err := c.events.CountByStatus(ctx)
		if err != nil {
			slog.Error("metrics: failed to count call events by status", "error", err)
		} else {
			for status, count := range counts {
				ch <- prometheus.MustNewConstMetric(
					c.callEventsDesc, prometheus.CounterValue,
					float64(count), status,
				)
			}
		}
	}

	// Message counters by direction.
	if c.messages != nil {
		counts, err := c.messages.CountByDirection(ctx)
		if err != nil {
			slog.Error("metrics: failed to count messages by direction", "error", err)
		} else {
			for _, dir := range []string{"inbound", "outbound"} {
				ch <- prometheus.MustNewConstMetric(
					c.messagesDesc, prometheus.CounterValue,
					float64(counts[dir]), dir,
				)
			}
		}
	}

	// Uptime.
	ch <- prometheus.MustNewConstMetric(
		c.uptimeDesc, prometheus.GaugeValue,
		time.Since(c.startTime).Seconds(),
	)
}
