package probe

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/abdu-ls/Surgical-IoMT/internal/execx"
)

// iperf3 prints "Mbits/sec", older iperf builds print "Mbit/sec".
var bandwidthRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*Mbits?/sec`)

// CollectBandwidth runs a one-second single-stream iperf3 test from the
// client to the server and returns the achieved throughput in Mbit/s.
// This is the most expensive probe; the sampler gates it to every Nth
// iteration. Any failure yields 0.
func CollectBandwidth(exec execx.Executor, client, serverAddr string) float64 {
	out, _ := exec.Output(client, fmt.Sprintf("iperf3 -c %s -t 1 -P 1 2>/dev/null", serverAddr))
	return ParseBandwidth(out)
}

// ParseBandwidth returns the first throughput figure found in the
// output, or 0 when none is present.
func ParseBandwidth(out string) float64 {
	m := bandwidthRe.FindStringSubmatch(out)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}
