package cotel

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/chenjie199234/Dictionary/internal/version"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.opentelemetry.io/otel"
	ometric "go.opentelemetry.io/otel/metric"
)

// usage is sampled every 100ms,max is reset after every collect
type usage struct {
	sync.Mutex
	lastCPU     float64
	maxCPU      float64
	cpuTotal    float64
	cpuIdle     float64
	totalMEM    uint64
	lastMEM     uint64
	maxMEM      uint64
	lastGCPause uint64
	stop        chan struct{}
}

var hostusage *usage

func (u *usage) sample() {
	u.Lock()
	defer u.Unlock()
	if times, e := cpu.Times(false); e == nil && len(times) > 0 {
		t := times[0]
		total := t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal + t.Guest + t.GuestNice
		idle := t.Idle + t.Iowait
		if u.cpuTotal != 0 && total > u.cpuTotal {
			u.lastCPU = 1 - (idle-u.cpuIdle)/(total-u.cpuTotal)
			u.maxCPU = max(u.maxCPU, u.lastCPU)
		}
		u.cpuTotal = total
		u.cpuIdle = idle
	}
	if memory, e := mem.VirtualMemory(); e == nil {
		u.totalMEM = memory.Total
		u.lastMEM = memory.Used
		u.maxMEM = max(u.maxMEM, u.lastMEM)
	}
}

func (u *usage) collect() (lastcpu, maxcpu, memusage, maxmemusage float64) {
	u.Lock()
	defer u.Unlock()
	lastcpu, maxcpu = u.lastCPU, u.maxCPU
	if u.totalMEM > 0 {
		memusage = float64(u.lastMEM) / float64(u.totalMEM)
		maxmemusage = float64(u.maxMEM) / float64(u.totalMEM)
	}
	u.maxCPU = u.lastCPU
	u.maxMEM = u.lastMEM
	return
}

func (u *usage) gc() uint64 {
	u.Lock()
	defer u.Unlock()
	meminfo := &runtime.MemStats{}
	runtime.ReadMemStats(meminfo)
	pause := meminfo.PauseTotalNs - u.lastGCPause
	u.lastGCPause = meminfo.PauseTotalNs
	return pause
}

func startHost() error {
	u := &usage{stop: make(chan struct{})}
	u.sample()
	hostusage = u
	go func() {
		tker := time.NewTicker(time.Millisecond * 100)
		defer tker.Stop()
		for {
			select {
			case <-tker.C:
				u.sample()
			case <-u.stop:
				return
			}
		}
	}()
	meter := otel.Meter("Dictionary.host", ometric.WithInstrumentationVersion(version.String()))
	cpuc, _ := meter.Float64ObservableGauge("cpu_cur_usage", ometric.WithUnit("%"))
	cpum, _ := meter.Float64ObservableGauge("cpu_max_usage", ometric.WithUnit("%"))
	memc, _ := meter.Float64ObservableGauge("mem_cur_usage", ometric.WithUnit("%"))
	memm, _ := meter.Float64ObservableGauge("mem_max_usage", ometric.WithUnit("%"))
	gc, _ := meter.Int64ObservableGauge("gc", ometric.WithUnit("ns"))
	goroutine, _ := meter.Int64ObservableGauge("goroutine", ometric.WithUnit("1"))
	_, e := meter.RegisterCallback(func(ctx context.Context, s ometric.Observer) error {
		lastcpu, maxcpu, lastmem, maxmem := u.collect()
		s.ObserveFloat64(cpuc, lastcpu*100.0)
		s.ObserveFloat64(cpum, maxcpu*100.0)
		s.ObserveFloat64(memc, lastmem*100.0)
		s.ObserveFloat64(memm, maxmem*100.0)
		s.ObserveInt64(gc, int64(u.gc()))
		s.ObserveInt64(goroutine, int64(runtime.NumGoroutine()))
		return nil
	}, cpuc, cpum, memc, memm, gc, goroutine)
	if e != nil {
		slog.Error("[cotel.host] register host metric callback failed", slog.String("error", e.Error()))
	}
	return e
}

func stopHost() {
	if hostusage != nil {
		close(hostusage.stop)
		hostusage = nil
	}
}
