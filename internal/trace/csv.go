// Package trace persists and analyzes the telemetry trace: one CSV row
// per sampling iteration plus a mirrored one-line console summary.
package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/abdu-ls/Surgical-IoMT/internal/model"
)

// Header is the fixed column order of the trace file.
var Header = []string{
	"elapsed_seconds",
	"latency_ms",
	"jitter_ms",
	"loss_pct",
	"bandwidth_mbps",
	"queue_drops",
	"delta_tx_bytes",
	"delta_rx_bytes",
	"rssi_dbm",
	"server_cpu_pct",
	"server_ram_pct",
	"congestion_state",
}

// Recorder appends samples to the trace file and mirrors a compact
// summary to a status stream. Every row is flushed immediately: a
// crash loses at most the in-flight sample. There is no retry — a
// write failure is fatal to the run and is propagated to the caller.
type Recorder struct {
	file   *os.File
	writer *csv.Writer
	status io.Writer
	path   string
}

// Create opens (truncating) the trace file and writes the header row.
func Create(path string, status io.Writer) (*Recorder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		file.Close()
		return nil, err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return nil, err
	}
	return &Recorder{file: file, writer: writer, status: status, path: path}, nil
}

// Path returns the trace file location.
func (r *Recorder) Path() string { return r.path }

// Record appends one sample row, flushes it to the file, and emits the
// status line.
func (r *Recorder) Record(s model.Sample) error {
	record := []string{
		strconv.Itoa(s.ElapsedSeconds),
		strconv.FormatFloat(s.LatencyMs, 'f', 2, 64),
		strconv.FormatFloat(s.JitterMs, 'f', 2, 64),
		strconv.FormatFloat(s.LossPct, 'f', 1, 64),
		formatBandwidth(s.BandwidthMbps),
		strconv.FormatInt(s.QueueDrops, 10),
		strconv.FormatInt(s.DeltaTxBytes, 10),
		strconv.FormatInt(s.DeltaRxBytes, 10),
		strconv.Itoa(s.RSSIDbm),
		strconv.FormatFloat(s.ServerCPUPct, 'f', 1, 64),
		strconv.FormatFloat(s.ServerRAMPct, 'f', 1, 64),
		string(s.State),
	}
	if err := r.writer.Write(record); err != nil {
		return err
	}
	r.writer.Flush()
	if err := r.writer.Error(); err != nil {
		return err
	}

	if r.status != nil {
		fmt.Fprintf(r.status, "[%ds] Lat=%.2fms Loss=%.1f%% RSSI=%ddBm CPU=%.1f%% RAM=%.1f%% | %s\n",
			s.ElapsedSeconds, s.LatencyMs, s.LossPct, s.RSSIDbm, s.ServerCPUPct, s.ServerRAMPct, s.State)
	}
	return nil
}

// Close releases the trace file. Safe to call more than once.
func (r *Recorder) Close() error {
	if r.file == nil {
		return nil
	}
	r.writer.Flush()
	err := r.file.Close()
	r.file = nil
	return err
}

// formatBandwidth keeps the "not measured" sentinel verbatim so
// downstream consumers can match on the exact -1 marker.
func formatBandwidth(v float64) string {
	if v == model.BandwidthNotMeasured {
		return "-1"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
