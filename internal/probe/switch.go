package probe

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/abdu-ls/Surgical-IoMT/internal/execx"
)

// SwitchCounters are cumulative port statistics from the access point's
// OVS datapath. Raw counters, not deltas — delta conversion is the
// CounterTracker's job.
type SwitchCounters struct {
	TxBytes    int64
	RxBytes    int64
	QueueDrops int64
}

var (
	txBytesRe = regexp.MustCompile(`tx_bytes=(\d+)`)
	rxBytesRe = regexp.MustCompile(`rx_bytes=(\d+)`)
	// The drop field name differs across OVS versions; try the known
	// spellings in order.
	dropRes = []*regexp.Regexp{
		regexp.MustCompile(`\bdrop=(\d+)`),
		regexp.MustCompile(`tx_dropped=(\d+)`),
		regexp.MustCompile(`rx_dropped=(\d+)`),
	}
)

// CollectSwitchCounters fetches port statistics with a single
// dump-ports invocation and scrapes all three counters from the one
// blob, avoiding a second query per iteration. A field that cannot be
// located reads as 0; a failed fetch yields all zeros.
func CollectSwitchCounters(exec execx.Executor, sw string) SwitchCounters {
	out, _ := exec.Output(sw, fmt.Sprintf("ovs-ofctl dump-ports %s", sw))
	return ParseSwitchCounters(out)
}

// ParseSwitchCounters locates tx_bytes, rx_bytes and a drop counter
// independently, so one missing field does not lose the others.
func ParseSwitchCounters(out string) SwitchCounters {
	var c SwitchCounters
	c.TxBytes = firstInt(txBytesRe, out)
	c.RxBytes = firstInt(rxBytesRe, out)
	for _, re := range dropRes {
		if m := re.FindStringSubmatch(out); m != nil {
			c.QueueDrops, _ = strconv.ParseInt(m[1], 10, 64)
			break
		}
	}
	return c
}

func firstInt(re *regexp.Regexp, out string) int64 {
	m := re.FindStringSubmatch(out)
	if m == nil {
		return 0
	}
	v, _ := strconv.ParseInt(m[1], 10, 64)
	return v
}
