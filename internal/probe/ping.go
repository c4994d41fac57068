// Package probe implements the metric collectors. Each collector pairs
// a pure parse function with a thin wrapper that runs the probe command
// on an emulated node. Probe tool output varies across versions, so
// every parse is a pattern search with a documented fallback — never an
// assumption of fixed format. Collectors do not return errors: a failed
// probe degrades to a conservative value and the sampling loop proceeds.
package probe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abdu-ls/Surgical-IoMT/internal/execx"
)

// PingStats is one round of latency/loss measurement.
type PingStats struct {
	LatencyMs float64
	JitterMs  float64
	LossPct   float64
}

// pingFallback assumes worst-case loss so an unreachable server shows
// up as HIGH risk instead of silently healthy.
var pingFallback = PingStats{LatencyMs: 0, JitterMs: 0, LossPct: 100}

// CollectPing probes the server from the client with a short fast ping
// (3 packets at 0.2s spacing, about one second total).
func CollectPing(exec execx.Executor, client, serverAddr string) PingStats {
	out, _ := exec.Output(client, fmt.Sprintf("ping -c 3 -i 0.2 %s", serverAddr))
	return ParsePing(out)
}

// ParsePing extracts loss from the "packet loss" summary line and
// latency/jitter from the avg and mdev fields of the rtt
// min/avg/max/mdev quartet. Output without a parseable loss summary
// (unknown host, transport failure, empty output) yields the
// worst-case fallback. ping exits non-zero on total loss but still
// prints the summary, so the caller parses output regardless of the
// command's exit status.
func ParsePing(out string) PingStats {
	before, _, found := strings.Cut(out, "packet loss")
	if !found {
		return pingFallback
	}
	fields := strings.Fields(before)
	if len(fields) == 0 {
		return pingFallback
	}
	// "... 3 received, 0% packet loss, time 401ms"
	lossTok := strings.TrimSuffix(fields[len(fields)-1], "%")
	loss, err := strconv.ParseFloat(lossTok, 64)
	if err != nil {
		return pingFallback
	}

	stats := PingStats{LossPct: loss}

	// "rtt min/avg/max/mdev = 1.234/2.345/3.456/0.789 ms"
	if idx := strings.Index(out, "rtt"); idx >= 0 {
		if _, after, ok := strings.Cut(out[idx:], "="); ok {
			quartet := strings.Split(strings.TrimSpace(after), "/")
			if len(quartet) >= 4 {
				if avg, err := strconv.ParseFloat(strings.TrimSpace(quartet[1]), 64); err == nil {
					stats.LatencyMs = avg
				}
				if mdev := strings.Fields(quartet[3]); len(mdev) > 0 {
					if v, err := strconv.ParseFloat(mdev[0], 64); err == nil {
						stats.JitterMs = v
					}
				}
			}
		}
	}

	return stats
}
