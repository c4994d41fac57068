package sampler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abdu-ls/Surgical-IoMT/internal/config"
	"github.com/abdu-ls/Surgical-IoMT/internal/execx"
	"github.com/abdu-ls/Surgical-IoMT/internal/model"
	"github.com/abdu-ls/Surgical-IoMT/internal/trace"
)

// fakeClock drives the loop without wall-clock time. Sleeping advances
// the clock by the requested amount.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) bool {
	if d > 0 {
		c.t = c.t.Add(d)
	}
	return ctx.Err() == nil
}

const healthyPing = `3 packets transmitted, 3 received, 0% packet loss, time 401ms
rtt min/avg/max/mdev = 9.000/10.000/11.000/1.000 ms
`

// healthyExec answers every probe with fixed healthy outputs and
// counts iperf invocations.
func healthyExec(iperfCalls *int) execx.Executor {
	return execx.ExecutorFunc(func(node, command string) (string, error) {
		switch {
		case strings.HasPrefix(command, "ping"):
			return healthyPing, nil
		case strings.HasPrefix(command, "iperf3"):
			*iperfCalls++
			return "[  5]   0.00-1.00   sec  6.0 MBytes  50.0 Mbits/sec\n", nil
		case strings.HasPrefix(command, "ovs-ofctl"):
			return "tx_bytes=1000, rx_bytes=2000, drop=0", nil
		case strings.Contains(command, "station dump"):
			return "signal: -50 dBm\n", nil
		case strings.HasPrefix(command, "top"):
			return "%Cpu(s):  15.0 us,  5.0 sy,  0.0 ni, 80.0 id\n", nil
		case strings.HasPrefix(command, "free"):
			return "              total        used        free\nMem:           1000         200         800\n", nil
		default:
			return "", fmt.Errorf("unexpected command %q", command)
		}
	})
}

func testConfig(t *testing.T, duration, interval, probePeriod int) config.Config {
	t.Helper()
	cfg := config.Config{
		Run: config.RunConfig{
			DurationSec: duration,
			IntervalSec: interval,
			ProbePeriod: probePeriod,
			OutputPath:  filepath.Join(t.TempDir(), "trace.csv"),
		},
		Nodes: config.NodesConfig{
			Client:     "sta3",
			Server:     "fog1",
			Switch:     "ap1",
			ServerAddr: "10.0.0.100",
		},
	}
	config.ApplyDefaults(&cfg)
	return cfg
}

func newTestSampler(cfg config.Config, exec execx.Executor, clock *fakeClock) *Sampler {
	s := New(cfg, exec)
	s.Status = io.Discard
	s.now = clock.now
	s.sleep = clock.sleep
	return s
}

func TestRun_TwoIterationsWithinDuration(t *testing.T) {
	t.Parallel()

	var iperfCalls int
	cfg := testConfig(t, 10, 5, 1)
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := newTestSampler(cfg, healthyExec(&iperfCalls), clock)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	samples, err := trace.ReadCSV(cfg.Run.OutputPath)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("samples=%d", len(samples))
	}
	for i, wantElapsed := range []int{0, 5} {
		if samples[i].ElapsedSeconds != wantElapsed {
			t.Fatalf("sample %d elapsed=%d", i, samples[i].ElapsedSeconds)
		}
		if samples[i].State != model.StateLow {
			t.Fatalf("sample %d state=%s", i, samples[i].State)
		}
		if samples[i].BandwidthMbps != 50 {
			t.Fatalf("sample %d bandwidth=%v", i, samples[i].BandwidthMbps)
		}
	}

	data, err := os.ReadFile(cfg.Run.OutputPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines=%d\n%s", len(lines), string(data))
	}
}

func TestRun_BandwidthProbeGating(t *testing.T) {
	t.Parallel()

	var iperfCalls int
	cfg := testConfig(t, 12, 1, 5)
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := newTestSampler(cfg, healthyExec(&iperfCalls), clock)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if iperfCalls != 2 {
		t.Fatalf("iperf calls=%d", iperfCalls)
	}

	samples, err := trace.ReadCSV(cfg.Run.OutputPath)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(samples) != 12 {
		t.Fatalf("samples=%d", len(samples))
	}
	for i, sample := range samples {
		iteration := i + 1
		if iteration%5 == 0 {
			if sample.BandwidthMbps != 50 {
				t.Fatalf("iteration %d bandwidth=%v", iteration, sample.BandwidthMbps)
			}
		} else if sample.BandwidthMbps != model.BandwidthNotMeasured {
			t.Fatalf("iteration %d bandwidth=%v", iteration, sample.BandwidthMbps)
		}
	}
}

func TestRun_FirstDeltaIsFullCounterThenZero(t *testing.T) {
	t.Parallel()

	var iperfCalls int
	cfg := testConfig(t, 10, 5, 1)
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := newTestSampler(cfg, healthyExec(&iperfCalls), clock)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	samples, err := trace.ReadCSV(cfg.Run.OutputPath)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if samples[0].DeltaTxBytes != 1000 || samples[0].DeltaRxBytes != 2000 {
		t.Fatalf("first deltas=%d/%d", samples[0].DeltaTxBytes, samples[0].DeltaRxBytes)
	}
	if samples[1].DeltaTxBytes != 0 || samples[1].DeltaRxBytes != 0 {
		t.Fatalf("second deltas=%d/%d", samples[1].DeltaTxBytes, samples[1].DeltaRxBytes)
	}
}

func TestRun_OverrunSkipsSleepAndRunsLong(t *testing.T) {
	t.Parallel()

	// Each ping costs 7s of fake time against a 5s interval: the loop
	// must proceed immediately and elapsed values stretch, never shrink.
	cfg := testConfig(t, 20, 5, 1)
	clock := &fakeClock{t: time.Unix(1000, 0)}
	var iperfCalls int
	inner := healthyExec(&iperfCalls)
	slowExec := execx.ExecutorFunc(func(node, command string) (string, error) {
		if strings.HasPrefix(command, "ping") {
			clock.t = clock.t.Add(7 * time.Second)
		}
		return inner.Output(node, command)
	})
	s := newTestSampler(cfg, slowExec, clock)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	samples, err := trace.ReadCSV(cfg.Run.OutputPath)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	want := []int{0, 7, 14}
	if len(samples) != len(want) {
		t.Fatalf("samples=%d", len(samples))
	}
	for i, elapsed := range want {
		if samples[i].ElapsedSeconds != elapsed {
			t.Fatalf("sample %d elapsed=%d", i, samples[i].ElapsedSeconds)
		}
	}
}

func TestRun_CancellationStopsCleanly(t *testing.T) {
	t.Parallel()

	var iperfCalls int
	cfg := testConfig(t, 1000, 5, 1)
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := newTestSampler(cfg, healthyExec(&iperfCalls), clock)

	ctx, cancel := context.WithCancel(context.Background())
	s.sleep = func(ctx context.Context, d time.Duration) bool {
		cancel()
		return false
	}

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	samples, err := trace.ReadCSV(cfg.Run.OutputPath)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("samples=%d", len(samples))
	}
}

// failingRecorder delegates to a real recorder and injects a write
// failure on the Nth sample.
type failingRecorder struct {
	real    traceRecorder
	failOn  int
	written int
	closed  bool
}

func (f *failingRecorder) Record(s model.Sample) error {
	f.written++
	if f.written >= f.failOn {
		return errors.New("disk full")
	}
	return f.real.Record(s)
}

func (f *failingRecorder) Close() error {
	f.closed = true
	return f.real.Close()
}

func (f *failingRecorder) Path() string { return f.real.Path() }

func TestRun_WriteFailureIsFatalButKeepsEarlierRows(t *testing.T) {
	t.Parallel()

	var iperfCalls int
	cfg := testConfig(t, 1000, 5, 1)
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := newTestSampler(cfg, healthyExec(&iperfCalls), clock)

	var failing *failingRecorder
	s.openTrace = func(path string, status io.Writer) (traceRecorder, error) {
		real, err := trace.Create(path, status)
		if err != nil {
			return nil, err
		}
		failing = &failingRecorder{real: real, failOn: 2}
		return failing, nil
	}

	err := s.Run(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !failing.closed {
		t.Fatalf("recorder not closed")
	}

	// The trace must remain well-formed with iteration 1's row intact.
	samples, readErr := trace.ReadCSV(cfg.Run.OutputPath)
	if readErr != nil {
		t.Fatalf("ReadCSV: %v", readErr)
	}
	if len(samples) != 1 || samples[0].ElapsedSeconds != 0 {
		t.Fatalf("samples=%+v", samples)
	}
}

func TestRun_TraceOpenFailure(t *testing.T) {
	t.Parallel()

	var iperfCalls int
	cfg := testConfig(t, 10, 5, 1)
	cfg.Run.OutputPath = filepath.Join(t.TempDir(), "missing-dir", "trace.csv")
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := newTestSampler(cfg, healthyExec(&iperfCalls), clock)

	if err := s.Run(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
