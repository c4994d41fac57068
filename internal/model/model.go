package model

// State is the ordinal congestion/risk label attached to every sample.
// It summarizes network and server health for downstream reward shaping.
type State string

const (
	StateLow    State = "LOW"
	StateMedium State = "MEDIUM"
	StateHigh   State = "HIGH"
)

// Sentinel values distinguishing "not measured" from genuine readings.
const (
	// BandwidthNotMeasured marks iterations where the iperf probe was skipped.
	BandwidthNotMeasured = -1.0
	// RSSIUnknown is reported when no signal line could be parsed.
	RSSIUnknown = -100
)

// Sample is one telemetry measurement row. Constructed fresh each
// iteration, written once, never mutated after recording.
type Sample struct {
	ElapsedSeconds int
	LatencyMs      float64
	JitterMs       float64
	LossPct        float64
	BandwidthMbps  float64 // BandwidthNotMeasured when the probe was skipped
	QueueDrops     int64   // cumulative, as reported by the switch
	DeltaTxBytes   int64
	DeltaRxBytes   int64
	RSSIDbm        int
	ServerCPUPct   float64
	ServerRAMPct   float64
	State          State
}
