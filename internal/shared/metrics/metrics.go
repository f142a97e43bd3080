package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	screeningStartedTotal   atomic.Uint64
	screeningCompletedTotal atomic.Uint64
	screeningFailedTotal    atomic.Uint64
	batchStartedTotal       atomic.Uint64
	batchCompletedTotal     atomic.Uint64

	queueJobsReceivedTotal  atomic.Uint64
	queueJobsCompletedTotal atomic.Uint64
	queueJobsFailedTotal    atomic.Uint64
	queueJobsDroppedTotal   atomic.Uint64

	screeningDuration = newHistogram([]float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 15000})
)

// IncScreeningStarted increments the started counter.
func IncScreeningStarted() {
	screeningStartedTotal.Add(1)
}

// IncScreeningCompleted increments the completed counter.
func IncScreeningCompleted() {
	screeningCompletedTotal.Add(1)
}

// IncScreeningFailed increments the failed counter.
func IncScreeningFailed() {
	screeningFailedTotal.Add(1)
}

// IncBatchStarted increments the bulk-batch started counter.
func IncBatchStarted() {
	batchStartedTotal.Add(1)
}

// IncBatchCompleted increments the bulk-batch completed counter.
func IncBatchCompleted() {
	batchCompletedTotal.Add(1)
}

// IncQueueJobReceived increments the worker received counter.
func IncQueueJobReceived() {
	queueJobsReceivedTotal.Add(1)
}

// IncQueueJobCompleted increments the worker completed counter.
func IncQueueJobCompleted() {
	queueJobsCompletedTotal.Add(1)
}

// IncQueueJobFailed increments the worker failed counter.
func IncQueueJobFailed() {
	queueJobsFailedTotal.Add(1)
}

// IncQueueJobDropped counts messages deleted without processing, such as
// malformed payloads.
func IncQueueJobDropped() {
	queueJobsDroppedTotal.Add(1)
}

// ObserveScreeningDurationMs records a screening duration in milliseconds.
func ObserveScreeningDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	screeningDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "screening_started_total", "Total screenings started", screeningStartedTotal.Load())
	writeCounter(&buf, "screening_completed_total", "Total screenings completed", screeningCompletedTotal.Load())
	writeCounter(&buf, "screening_failed_total", "Total screenings failed", screeningFailedTotal.Load())
	writeCounter(&buf, "screening_batch_started_total", "Total bulk screening batches started", batchStartedTotal.Load())
	writeCounter(&buf, "screening_batch_completed_total", "Total bulk screening batches completed", batchCompletedTotal.Load())
	writeCounter(&buf, "queue_jobs_received_total", "Total queue jobs received by the worker", queueJobsReceivedTotal.Load())
	writeCounter(&buf, "queue_jobs_completed_total", "Total queue jobs completed by the worker", queueJobsCompletedTotal.Load())
	writeCounter(&buf, "queue_jobs_failed_total", "Total queue jobs failed in the worker", queueJobsFailedTotal.Load())
	writeCounter(&buf, "queue_jobs_dropped_total", "Total malformed queue jobs dropped by the worker", queueJobsDroppedTotal.Load())
	writeHistogram(&buf, "screening_duration_ms", "Screening duration in milliseconds", screeningDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// NowMillis returns current time in milliseconds for duration math.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
