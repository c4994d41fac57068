package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/abdu-ls/Surgical-IoMT/internal/model"
)

// ReadCSV loads a recorded trace from a file.
func ReadCSV(path string) ([]model.Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return readCSV(file)
}

func readCSV(r io.Reader) ([]model.Sample, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	start := 0
	if len(records[0]) > 0 && records[0][0] == Header[0] {
		start = 1
	}

	samples := make([]model.Sample, 0, len(records)-start)
	for i := start; i < len(records); i++ {
		rec := records[i]
		if len(rec) < len(Header) {
			return nil, fmt.Errorf("invalid record at line %d", i+1)
		}
		elapsed, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("invalid elapsed_seconds at line %d: %w", i+1, err)
		}
		latency, _ := strconv.ParseFloat(rec[1], 64)
		jitter, _ := strconv.ParseFloat(rec[2], 64)
		loss, _ := strconv.ParseFloat(rec[3], 64)
		bandwidth, _ := strconv.ParseFloat(rec[4], 64)
		drops, _ := strconv.ParseInt(rec[5], 10, 64)
		deltaTx, _ := strconv.ParseInt(rec[6], 10, 64)
		deltaRx, _ := strconv.ParseInt(rec[7], 10, 64)
		rssi, _ := strconv.Atoi(rec[8])
		cpu, _ := strconv.ParseFloat(rec[9], 64)
		ram, _ := strconv.ParseFloat(rec[10], 64)
		samples = append(samples, model.Sample{
			ElapsedSeconds: elapsed,
			LatencyMs:      latency,
			JitterMs:       jitter,
			LossPct:        loss,
			BandwidthMbps:  bandwidth,
			QueueDrops:     drops,
			DeltaTxBytes:   deltaTx,
			DeltaRxBytes:   deltaRx,
			RSSIDbm:        rssi,
			ServerCPUPct:   cpu,
			ServerRAMPct:   ram,
			State:          model.State(rec[11]),
		})
	}

	return samples, nil
}
