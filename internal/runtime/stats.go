package runtime

import (
	"sort"
	"sync"
	"time"
)

const latencySampleSize = 256

// UnprocessableMessageError wraps payloads that failed schema lookup or
// decoding. The poison queue middleware forwards messages carrying it.
type UnprocessableMessageError struct {
	payload string
	err     error
}

func (e *UnprocessableMessageError) Error() string {
	return "unprocessable message: " + e.payload + " error: " + e.err.Error()
}

func (e *UnprocessableMessageError) Unwrap() error {
	return e.err
}

// HandlerInfo describes a registered handler and its live statistics.
type HandlerInfo struct {
	Name            string        `json:"name"`
	OriginTransport string        `json:"origin_transport,omitempty"`
	Stats           *HandlerStats `json:"stats"`
}

// HandlerStats tracks per-handler dispatch counters. All methods are safe for
// concurrent use.
type HandlerStats struct {
	mu sync.Mutex

	MessagesProcessed   uint64    `json:"messages_processed"`
	MessagesFailed      uint64    `json:"messages_failed"`
	TotalProcessingTime int64     `json:"total_processing_time_ns"`
	LastProcessedAt     time.Time `json:"last_processed_at"`

	Latency LatencyMetrics `json:"latency"`

	latencyWindow *latencyWindow
}

// LatencyMetrics summarises recent handler latencies.
type LatencyMetrics struct {
	AverageNs  int64 `json:"average_ns"`
	P50Ns      int64 `json:"p50_ns"`
	P95Ns      int64 `json:"p95_ns"`
	P99Ns      int64 `json:"p99_ns"`
	LastNs     int64 `json:"last_ns"`
	SampleSize int   `json:"sample_size"`
}

func newHandlerStats() *HandlerStats {
	return &HandlerStats{
		latencyWindow: newLatencyWindow(latencySampleSize),
	}
}

func (h *HandlerStats) record(duration time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.MessagesProcessed++
	if err != nil {
		h.MessagesFailed++
	}
	h.TotalProcessingTime += int64(duration)
	h.LastProcessedAt = time.Now().UTC()

	h.latencyWindow.Add(duration)
	snapshot := h.latencyWindow.Snapshot()
	snapshot.LastNs = int64(duration)
	snapshot.AverageNs = h.TotalProcessingTime / int64(h.MessagesProcessed)
	h.Latency = snapshot
}

// Snapshot returns a copy of the counters for safe external reads.
func (h *HandlerStats) Snapshot() HandlerStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HandlerStats{
		MessagesProcessed:   h.MessagesProcessed,
		MessagesFailed:      h.MessagesFailed,
		TotalProcessingTime: h.TotalProcessingTime,
		LastProcessedAt:     h.LastProcessedAt,
		Latency:             h.Latency,
	}
}

type latencyWindow struct {
	samples []int64
	next    int
	filled  int
	last    int64
}

func newLatencyWindow(size int) *latencyWindow {
	if size <= 0 {
		size = latencySampleSize
	}
	return &latencyWindow{samples: make([]int64, size)}
}

func (lw *latencyWindow) Add(d time.Duration) {
	if lw == nil || len(lw.samples) == 0 {
		return
	}
	lw.samples[lw.next] = int64(d)
	lw.last = int64(d)
	lw.next = (lw.next + 1) % len(lw.samples)
	if lw.filled < len(lw.samples) {
		lw.filled++
	}
}

func (lw *latencyWindow) Snapshot() LatencyMetrics {
	var metrics LatencyMetrics
	if lw == nil || lw.filled == 0 {
		return metrics
	}
	samples := make([]int64, lw.filled)
	for i := 0; i < lw.filled; i++ {
		idx := lw.next - lw.filled + i
		if idx < 0 {
			idx += len(lw.samples)
		}
		samples[i] = lw.samples[idx]
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	metrics.SampleSize = lw.filled
	metrics.P50Ns = percentile(samples, 0.50)
	metrics.P95Ns = percentile(samples, 0.95)
	metrics.P99Ns = percentile(samples, 0.99)
	metrics.LastNs = lw.last
	return metrics
}

func percentile(samples []int64, quantile float64) int64 {
	if len(samples) == 0 {
		return 0
	}
	if quantile <= 0 {
		return samples[0]
	}
	if quantile >= 1 {
		return samples[len(samples)-1]
	}
	pos := quantile * float64(len(samples)-1)
	lower := int(pos)
	upper := lower + 1
	if upper >= len(samples) {
		return samples[lower]
	}
	frac := pos - float64(lower)
	return samples[lower] + int64(float64(samples[upper]-samples[lower])*frac)
}
