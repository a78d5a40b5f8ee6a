package telemetry

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type perfStats struct {
	self       *process.Process
	cpu        metric.Float64Gauge
	rss        metric.Int64Gauge
	goroutines metric.Int64Gauge
}

func (p perfStats) record(ctx context.Context) {
	cpuPercent, err := p.self.CPUPercentWithContext(ctx)
	if err != nil {
		slog.Debug("failed to read process cpu usage", "err", err.Error())
	} else {
		p.cpu.Record(ctx, cpuPercent)
	}

	mem, err := p.self.MemoryInfoWithContext(ctx)
	if err != nil {
		slog.Debug("failed to read process memory", "err", err.Error())
	} else {
		p.rss.Record(ctx, int64(mem.RSS/1_000_000))
	}

	p.goroutines.Record(ctx, int64(runtime.NumGoroutine()))
}

// InstrumentPerfStats records the cpu usage, resident memory and goroutine count of
// the process every interval until ctx is done. The meter is looked up on call so
// it is bound to the provider installed by Setup.
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	self, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		slog.Warn("perf stats disabled", "err", err.Error())
		return
	}

	meter := otel.Meter("socsbot/perf_stats")
	stats := perfStats{self: self}
	stats.cpu, _ = meter.Float64Gauge("process.cpu_percent")
	stats.rss, _ = meter.Int64Gauge("process.rss_mb")
	stats.goroutines, _ = meter.Int64Gauge("process.goroutines")

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				stats.record(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}
