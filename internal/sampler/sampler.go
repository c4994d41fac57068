// Package sampler owns the telemetry iteration loop: pacing, probe
// gating, classification, recording and shutdown.
package sampler

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/abdu-ls/Surgical-IoMT/internal/classify"
	"github.com/abdu-ls/Surgical-IoMT/internal/config"
	"github.com/abdu-ls/Surgical-IoMT/internal/execx"
	"github.com/abdu-ls/Surgical-IoMT/internal/model"
	"github.com/abdu-ls/Surgical-IoMT/internal/probe"
	"github.com/abdu-ls/Surgical-IoMT/internal/trace"
)

// traceRecorder is the slice of trace.Recorder the loop depends on.
type traceRecorder interface {
	Record(model.Sample) error
	Close() error
	Path() string
}

// Sampler drives the strictly sequential sampling loop. One logical
// thread executes the whole iteration body; the only mutable state
// across iterations is the byte-counter tracker.
type Sampler struct {
	cfg     config.Config
	exec    execx.Executor
	tracker *probe.CounterTracker

	// Status receives the per-iteration console line. Defaults to stdout.
	Status io.Writer

	// Hooks overridable in tests: the clock pair and the trace opener.
	// sleep returns false when the context was cancelled before the
	// delay elapsed.
	now       func() time.Time
	sleep     func(ctx context.Context, d time.Duration) bool
	openTrace func(path string, status io.Writer) (traceRecorder, error)
}

func New(cfg config.Config, exec execx.Executor) *Sampler {
	return &Sampler{
		cfg:     cfg,
		exec:    exec,
		tracker: probe.NewCounterTracker(),
		Status:  os.Stdout,
		now:     time.Now,
		sleep:   sleepContext,
		openTrace: func(path string, status io.Writer) (traceRecorder, error) {
			return trace.Create(path, status)
		},
	}
}

// Run executes the sampling loop until the configured duration
// elapses, the context is cancelled, or recording fails. Cancellation
// is cooperative: it is observed between iterations and at the sleep
// boundary, never pre-empting an in-flight probe command. On every
// exit path the trace file is closed exactly once and its location
// logged; already-written rows survive all failure modes. A cancelled
// run is a clean stop, not an error.
func (s *Sampler) Run(ctx context.Context) error {
	nodes := s.cfg.Nodes
	duration := time.Duration(s.cfg.Run.DurationSec) * time.Second
	interval := time.Duration(s.cfg.Run.IntervalSec) * time.Second

	recorder, err := s.openTrace(s.cfg.Run.OutputPath, s.Status)
	if err != nil {
		return fmt.Errorf("open trace: %w", err)
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			log.Printf("close trace: %v", err)
		}
		log.Printf("trace saved to %s", recorder.Path())
	}()

	log.Printf("profiling for %s: client=%s server=%s switch=%s target=%s",
		duration, nodes.Client, nodes.Server, nodes.Switch, nodes.ServerAddr)

	start := s.now()
	iteration := 0

	for {
		loopStart := s.now()
		elapsed := loopStart.Sub(start)
		if elapsed >= duration {
			return nil
		}
		if ctx.Err() != nil {
			log.Printf("profiling stopped by signal")
			return nil
		}
		iteration++

		ping := probe.CollectPing(s.exec, nodes.Client, nodes.ServerAddr)
		counters := probe.CollectSwitchCounters(s.exec, nodes.Switch)
		deltaTx, deltaRx := s.tracker.Observe(counters.TxBytes, counters.RxBytes)
		rssi := probe.CollectRSSI(s.exec, nodes.Client)
		load := probe.CollectServerLoad(s.exec, nodes.Server)

		bandwidth := model.BandwidthNotMeasured
		if iteration%s.cfg.Run.ProbePeriod == 0 {
			bandwidth = probe.CollectBandwidth(s.exec, nodes.Client, nodes.ServerAddr)
		}

		state := classify.Classify(ping.LatencyMs, ping.LossPct, counters.QueueDrops,
			bandwidth, rssi, load.CPUPct, load.RAMPct)

		sample := model.Sample{
			ElapsedSeconds: int(elapsed / time.Second),
			LatencyMs:      ping.LatencyMs,
			JitterMs:       ping.JitterMs,
			LossPct:        ping.LossPct,
			BandwidthMbps:  bandwidth,
			QueueDrops:     counters.QueueDrops,
			DeltaTxBytes:   deltaTx,
			DeltaRxBytes:   deltaRx,
			RSSIDbm:        rssi,
			ServerCPUPct:   load.CPUPct,
			ServerRAMPct:   load.RAMPct,
			State:          state,
		}
		if err := recorder.Record(sample); err != nil {
			return fmt.Errorf("record sample at %ds: %w", sample.ElapsedSeconds, err)
		}

		// Drift-compensated pacing: sleep only the residual of the
		// target interval. If collection overran the interval the
		// loop proceeds immediately; the run goes long, never short.
		work := s.now().Sub(loopStart)
		if !s.sleep(ctx, interval-work) {
			log.Printf("profiling stopped by signal")
			return nil
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
