package probe

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/abdu-ls/Surgical-IoMT/internal/execx"
	"github.com/abdu-ls/Surgical-IoMT/internal/model"
)

// station dump prints "signal:  -65 [-70, -68] dBm"; older wireless
// stacks print just "signal: -65 dBm".
var signalRe = regexp.MustCompile(`signal:\s*(-\d+)`)

// CollectRSSI reads the client's wireless signal strength from its
// station dump. Mininet-WiFi names the station interface
// "<node>-wlan0". Absence of a signal line (wired node, association
// lost, tool missing) yields the worst-case sentinel.
func CollectRSSI(exec execx.Executor, client string) int {
	out, _ := exec.Output(client, fmt.Sprintf("iw dev %s-wlan0 station dump | grep signal", client))
	return ParseRSSI(out)
}

// ParseRSSI extracts the first signed "signal: <N>" value in dBm, or
// model.RSSIUnknown when none is found.
func ParseRSSI(out string) int {
	m := signalRe.FindStringSubmatch(out)
	if m == nil {
		return model.RSSIUnknown
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return model.RSSIUnknown
	}
	return v
}
