package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	generationStartedTotal   atomic.Uint64
	generationCompletedTotal atomic.Uint64
	generationFailedTotal    atomic.Uint64

	importStartedTotal   atomic.Uint64
	importCompletedTotal atomic.Uint64
	importFailedTotal    atomic.Uint64

	pdfConversionFailedTotal atomic.Uint64
	busyRejectedTotal        atomic.Uint64
	rateLimitedTotal         atomic.Uint64

	llmRequestDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

func IncGenerationStarted()   { generationStartedTotal.Add(1) }
func IncGenerationCompleted() { generationCompletedTotal.Add(1) }
func IncGenerationFailed()    { generationFailedTotal.Add(1) }

func IncImportStarted()   { importStartedTotal.Add(1) }
func IncImportCompleted() { importCompletedTotal.Add(1) }
func IncImportFailed()    { importFailedTotal.Add(1) }

// IncPDFConversionFailed counts converter runs that exited non-zero.
func IncPDFConversionFailed() { pdfConversionFailedTotal.Add(1) }

// IncBusyRejected counts submissions refused because a task was in flight.
func IncBusyRejected() { busyRejectedTotal.Add(1) }

// IncRateLimited counts requests answered with 429.
func IncRateLimited() { rateLimitedTotal.Add(1) }

// ObserveLLMRequestMs records a generation endpoint round trip in milliseconds.
func ObserveLLMRequestMs(value float64) {
	if value < 0 {
		value = 0
	}
	llmRequestDuration.Observe(value)
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
	writeCounter(&buf, "generation_started_total", "Total application generations started", generationStartedTotal.Load())
	writeCounter(&buf, "generation_completed_total", "Total application generations completed", generationCompletedTotal.Load())
	writeCounter(&buf, "generation_failed_total", "Total application generations failed", generationFailedTotal.Load())
	writeCounter(&buf, "import_started_total", "Total resume imports started", importStartedTotal.Load())
	writeCounter(&buf, "import_completed_total", "Total resume imports completed", importCompletedTotal.Load())
	writeCounter(&buf, "import_failed_total", "Total resume imports failed", importFailedTotal.Load())
	writeCounter(&buf, "pdf_conversion_failed_total", "Total markdown to PDF conversions that failed", pdfConversionFailedTotal.Load())
	writeCounter(&buf, "busy_rejected_total", "Total submissions rejected while a task was running", busyRejectedTotal.Load())
	writeCounter(&buf, "rate_limited_total", "Total requests rejected by the rate limiter", rateLimitedTotal.Load())
	writeHistogram(&buf, "llm_request_duration_ms", "Generation endpoint request duration in milliseconds", llmRequestDuration.Snapshot())
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

// Observe counts value into the first bucket whose bound holds it.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
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
