package monitoring

import (
	"context"
	"runtime"
	"time"
)

// RuntimeSample is one reading of Go runtime memory and GC statistics
type RuntimeSample struct {
	HeapAlloc    uint64    `json:"heap_alloc_bytes"`
	HeapSys      uint64    `json:"heap_sys_bytes"`
	HeapObjects  uint64    `json:"heap_objects"`
	NumGC        uint32    `json:"num_gc"`
	PauseTotalNs uint64    `json:"pause_total_ns"`
	Goroutines   int       `json:"goroutines"`
	Timestamp    time.Time `json:"timestamp"`
}

// SampleRuntime reads the current runtime statistics
func SampleRuntime() RuntimeSample {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return RuntimeSample{
		HeapAlloc:    ms.HeapAlloc,
		HeapSys:      ms.HeapSys,
		HeapObjects:  ms.HeapObjects,
		NumGC:        ms.NumGC,
		PauseTotalNs: ms.PauseTotalNs,
		Goroutines:   runtime.NumGoroutine(),
		Timestamp:    time.Now(),
	}
}

// RunRuntimeSampler records a runtime sample into metrics every interval until
// ctx is done. Heap usage above warnHeapBytes is logged.
func RunRuntimeSampler(ctx context.Context, interval time.Duration, warnHeapBytes uint64, metrics *Metrics, logger *Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.SystemLogger("runtime_sampler_started", interval.String())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := SampleRuntime()
			metrics.RecordRuntime(s)
			if warnHeapBytes > 0 && s.HeapAlloc > warnHeapBytes {
				logger.PerformanceLogger("heap_alloc_mb", float64(s.HeapAlloc)/(1024*1024), "MB")
			}
		}
	}
}
