// Package arenaprom exports an *arena.Arena's statistics as Prometheus
// collectors, without requiring the arena package itself to depend on
// Prometheus.
package arenaprom

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cloudfly/segarena/arena"
)

var (
	liveBytesDesc  = prometheus.NewDesc("segarena_live_bytes", "Bytes currently held by live allocations.", nil, nil)
	liveBlocksDesc = prometheus.NewDesc("segarena_live_blocks", "Number of currently live blocks.", nil, nil)
	freeBytesDesc  = prometheus.NewDesc("segarena_free_bytes", "Bytes currently available across all free lists.", nil, nil)
	freeBlocksDesc = prometheus.NewDesc("segarena_free_blocks", "Number of currently free blocks.", nil, nil)

	totalAllocationsDesc  = prometheus.NewDesc("segarena_allocations_total", "Total successful allocations.", nil, nil)
	totalFreesDesc        = prometheus.NewDesc("segarena_frees_total", "Total frees.", nil, nil)
	failedAllocationsDesc = prometheus.NewDesc("segarena_failed_allocations_total", "Total allocations that failed with out-of-memory.", nil, nil)

	requestedBytesDesc = prometheus.NewDesc("segarena_requested_bytes", "Sum of request_size across live blocks.", nil, nil)
	overheadBytesDesc  = prometheus.NewDesc("segarena_overhead_bytes", "Sum of (payload_size - request_size) across live blocks.", nil, nil)

	largestFreeBlockDesc  = prometheus.NewDesc("segarena_largest_free_block_bytes", "Largest currently free block.", nil, nil)
	smallestFreeBlockDesc = prometheus.NewDesc("segarena_smallest_free_block_bytes", "Smallest currently free block.", nil, nil)

	perClassLiveBytesDesc = prometheus.NewDesc("segarena_class_live_bytes", "Live bytes per size class.", []string{"class"}, nil)

	allocateSecondsDesc = prometheus.NewDesc("segarena_allocate_seconds_total", "Cumulative time spent inside Allocate.", nil, nil)
	freeSecondsDesc     = prometheus.NewDesc("segarena_free_seconds_total", "Cumulative time spent inside Free.", nil, nil)
)

// Collector adapts an *arena.Arena to prometheus.Collector by reading a
// Stats snapshot on every Collect call. It holds no state of its own.
type Collector struct {
	a *arena.Arena
}

// NewCollector wraps a as a prometheus.Collector.
func NewCollector(a *arena.Arena) *Collector {
	return &Collector{a: a}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- liveBytesDesc
	ch <- liveBlocksDesc
	ch <- freeBytesDesc
	ch <- freeBlocksDesc
	ch <- totalAllocationsDesc
	ch <- totalFreesDesc
	ch <- failedAllocationsDesc
	ch <- requestedBytesDesc
	ch <- overheadBytesDesc
	ch <- largestFreeBlockDesc
	ch <- smallestFreeBlockDesc
	ch <- perClassLiveBytesDesc
	ch <- allocateSecondsDesc
	ch <- freeSecondsDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.a.Stats()

	ch <- prometheus.MustNewConstMetric(liveBytesDesc, prometheus.GaugeValue, float64(s.LiveBytes))
	ch <- prometheus.MustNewConstMetric(liveBlocksDesc, prometheus.GaugeValue, float64(s.LiveBlocks))
	ch <- prometheus.MustNewConstMetric(freeBytesDesc, prometheus.GaugeValue, float64(s.FreeBytes))
	ch <- prometheus.MustNewConstMetric(freeBlocksDesc, prometheus.GaugeValue, float64(s.FreeBlocks))

	ch <- prometheus.MustNewConstMetric(totalAllocationsDesc, prometheus.CounterValue, float64(s.TotalAllocations))
	ch <- prometheus.MustNewConstMetric(totalFreesDesc, prometheus.CounterValue, float64(s.TotalFrees))
	ch <- prometheus.MustNewConstMetric(failedAllocationsDesc, prometheus.CounterValue, float64(s.FailedAllocation))

	ch <- prometheus.MustNewConstMetric(requestedBytesDesc, prometheus.GaugeValue, float64(s.RequestedBytes))
	ch <- prometheus.MustNewConstMetric(overheadBytesDesc, prometheus.GaugeValue, float64(s.OverheadBytes))

	ch <- prometheus.MustNewConstMetric(largestFreeBlockDesc, prometheus.GaugeValue, float64(s.LargestFreeBlock))
	ch <- prometheus.MustNewConstMetric(smallestFreeBlockDesc, prometheus.GaugeValue, float64(s.SmallestFreeBlock))

	for class, bytes := range s.PerClassLiveBytes {
		ch <- prometheus.MustNewConstMetric(perClassLiveBytesDesc, prometheus.GaugeValue, float64(bytes), strconv.Itoa(class))
	}

	ch <- prometheus.MustNewConstMetric(allocateSecondsDesc, prometheus.CounterValue, s.TimeInAllocate.Seconds())
	ch <- prometheus.MustNewConstMetric(freeSecondsDesc, prometheus.CounterValue, s.TimeInFree.Seconds())
}
