package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abdu-ls/Surgical-IoMT/internal/config"
	"github.com/abdu-ls/Surgical-IoMT/internal/execx"
	"github.com/abdu-ls/Surgical-IoMT/internal/model"
	"github.com/abdu-ls/Surgical-IoMT/internal/sampler"
	"github.com/abdu-ls/Surgical-IoMT/internal/trace"
)

const usage = `iomtprof - network/compute telemetry profiler for an emulated IoMT edge path

Usage:
  iomtprof run --config <path> [--duration <sec>] [--interval <sec>]
               [--probe-period <n>] [--out <file>]
               [--client <node>] [--server <node>] [--switch <node>] [--server-addr <ip>]
  iomtprof stats --trace <file>
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "-h", "--help", "help":
		fmt.Print(usage)
	case "run":
		handleRun(os.Args[2:])
	case "stats":
		handleStats(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

func handleRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "path to YAML config")
	duration := fs.Int("duration", 0, "run duration in seconds")
	interval := fs.Int("interval", 0, "target sampling interval in seconds")
	probePeriod := fs.Int("probe-period", 0, "run the bandwidth probe every Nth iteration")
	out := fs.String("out", "", "trace output path")
	client := fs.String("client", "", "client node name")
	server := fs.String("server", "", "server node name")
	sw := fs.String("switch", "", "switch/AP node name")
	serverAddr := fs.String("server-addr", "", "server address as seen from the client")
	helper := fs.String("helper", "", "mininet attach helper command")
	_ = fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	overrideRun(&cfg, *duration, *interval, *probePeriod, *out, *helper)
	overrideNodes(&cfg, *client, *server, *sw, *serverAddr)
	config.ApplyDefaults(&cfg)
	if err := config.Validate(cfg); err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exec := execx.NewMininetExecutor(cfg.Run.AttachHelper)
	if err := sampler.New(cfg, exec).Run(ctx); err != nil {
		fatal(err)
	}
}

func handleStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	tracePath := fs.String("trace", "", "path to a recorded trace CSV")
	_ = fs.Parse(args)

	if *tracePath == "" {
		fatal(fmt.Errorf("--trace is required"))
	}
	samples, err := trace.ReadCSV(*tracePath)
	if err != nil {
		fatal(err)
	}
	s := trace.Summarize(samples)

	fmt.Printf("samples: %d\n", s.Count)
	if s.Count == 0 {
		return
	}
	fmt.Printf("latency ms: avg=%.2f p95=%.2f min=%.2f max=%.2f\n",
		s.AvgLatencyMs, s.P95LatencyMs, s.MinLatencyMs, s.MaxLatencyMs)
	fmt.Printf("jitter ms: avg=%.2f\n", s.AvgJitterMs)
	fmt.Printf("loss pct: avg=%.2f\n", s.AvgLossPct)
	if s.BandwidthSamples > 0 {
		fmt.Printf("bandwidth mbps: avg=%.2f (over %d measured)\n", s.AvgBandwidthMbps, s.BandwidthSamples)
	} else {
		fmt.Printf("bandwidth mbps: no measured iterations\n")
	}
	fmt.Printf("server: cpu avg=%.1f%% ram avg=%.1f%%\n", s.AvgServerCPUPct, s.AvgServerRAMPct)
	fmt.Printf("states: LOW=%d MEDIUM=%d HIGH=%d\n",
		s.States[model.StateLow], s.States[model.StateMedium], s.States[model.StateHigh])
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		var cfg config.Config
		config.ApplyDefaults(&cfg)
		return cfg, nil
	}
	return config.Load(path)
}

func overrideRun(cfg *config.Config, duration, interval, probePeriod int, out, helper string) {
	if duration > 0 {
		cfg.Run.DurationSec = duration
	}
	if interval > 0 {
		cfg.Run.IntervalSec = interval
	}
	if probePeriod > 0 {
		cfg.Run.ProbePeriod = probePeriod
	}
	if out != "" {
		cfg.Run.OutputPath = out
	}
	if helper != "" {
		cfg.Run.AttachHelper = helper
	}
}

func overrideNodes(cfg *config.Config, client, server, sw, serverAddr string) {
	if client != "" {
		cfg.Nodes.Client = client
	}
	if server != "" {
		cfg.Nodes.Server = server
	}
	if sw != "" {
		cfg.Nodes.Switch = sw
	}
	if serverAddr != "" {
		cfg.Nodes.ServerAddr = serverAddr
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
