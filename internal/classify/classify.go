// Package classify maps a metric vector to its congestion risk label.
package classify

import "github.com/abdu-ls/Surgical-IoMT/internal/model"

// Thresholds for the HIGH band: any single breach marks the sample HIGH.
const (
	HighLatencyMs    = 50.0
	HighLossPct      = 5.0
	HighQueueDrops   = 1000
	LowBandwidthMbps = 2.0
	HighRSSIFloorDbm = -75
	HighCPUPct       = 90.0
	HighRAMPct       = 90.0
)

// Thresholds for the MEDIUM band.
const (
	MediumLatencyMs    = 20.0
	MediumLossPct      = 1.0
	MediumRSSIFloorDbm = -65
	MediumCPUPct       = 70.0
	MediumRAMPct       = 70.0
)

// Classify is a pure instantaneous function of the current sample: no
// hysteresis, no smoothing, recomputed independently every iteration.
// Bands are evaluated HIGH before MEDIUM before LOW, first match wins.
//
// The bandwidth "not measured" sentinel (-1) is numerically below the
// 2 Mbit/s floor and therefore trips HIGH. That is intentional policy:
// a stale bandwidth reading is treated as risk-equivalent to low
// bandwidth until the next probe. Runs that want unprobed iterations
// classifiable as LOW should set bandwidth_probe_period to 1.
func Classify(latencyMs, lossPct float64, queueDrops int64, bandwidthMbps float64, rssiDbm int, cpuPct, ramPct float64) model.State {
	switch {
	case latencyMs > HighLatencyMs,
		lossPct > HighLossPct,
		queueDrops > HighQueueDrops,
		bandwidthMbps < LowBandwidthMbps,
		rssiDbm < HighRSSIFloorDbm,
		cpuPct > HighCPUPct,
		ramPct > HighRAMPct:
		return model.StateHigh
	case latencyMs > MediumLatencyMs,
		lossPct > MediumLossPct,
		rssiDbm < MediumRSSIFloorDbm,
		cpuPct > MediumCPUPct,
		ramPct > MediumRAMPct:
		return model.StateMedium
	default:
		return model.StateLow
	}
}
