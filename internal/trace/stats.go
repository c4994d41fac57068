package trace

import (
	"math"
	"sort"

	"github.com/abdu-ls/Surgical-IoMT/internal/model"
)

// Summary is a basic statistics snapshot of a finished trace.
type Summary struct {
	Count            int
	AvgLatencyMs     float64
	P95LatencyMs     float64
	MinLatencyMs     float64
	MaxLatencyMs     float64
	AvgJitterMs      float64
	AvgLossPct       float64
	AvgBandwidthMbps float64 // over measured iterations only
	BandwidthSamples int     // iterations where the iperf probe ran
	AvgServerCPUPct  float64
	AvgServerRAMPct  float64
	States           map[model.State]int
}

// Summarize computes summary statistics over a trace. Rows carrying
// the bandwidth "not measured" sentinel are excluded from the
// bandwidth average but counted everywhere else.
func Summarize(samples []model.Sample) Summary {
	s := Summary{States: map[model.State]int{}}
	if len(samples) == 0 {
		return s
	}

	latencies := make([]float64, 0, len(samples))
	var sumLatency, sumJitter, sumLoss, sumBandwidth, sumCPU, sumRAM float64
	minLatency := math.MaxFloat64
	maxLatency := 0.0

	for _, m := range samples {
		latencies = append(latencies, m.LatencyMs)
		sumLatency += m.LatencyMs
		sumJitter += m.JitterMs
		sumLoss += m.LossPct
		sumCPU += m.ServerCPUPct
		sumRAM += m.ServerRAMPct
		if m.BandwidthMbps != model.BandwidthNotMeasured {
			sumBandwidth += m.BandwidthMbps
			s.BandwidthSamples++
		}
		if m.LatencyMs < minLatency {
			minLatency = m.LatencyMs
		}
		if m.LatencyMs > maxLatency {
			maxLatency = m.LatencyMs
		}
		s.States[m.State]++
	}

	sort.Float64s(latencies)
	count := float64(len(samples))

	s.Count = len(samples)
	s.AvgLatencyMs = sumLatency / count
	s.P95LatencyMs = percentile(latencies, 0.95)
	s.MinLatencyMs = minLatency
	s.MaxLatencyMs = maxLatency
	s.AvgJitterMs = sumJitter / count
	s.AvgLossPct = sumLoss / count
	s.AvgServerCPUPct = sumCPU / count
	s.AvgServerRAMPct = sumRAM / count
	if s.BandwidthSamples > 0 {
		s.AvgBandwidthMbps = sumBandwidth / float64(s.BandwidthSamples)
	}
	return s
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if p <= 0 {
		return values[0]
	}
	if p >= 1 {
		return values[len(values)-1]
	}
	idx := int(math.Ceil(p*float64(len(values)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(values) {
		idx = len(values) - 1
	}
	return values[idx]
}
