package probe

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/abdu-ls/Surgical-IoMT/internal/execx"
)

// ServerLoad is the edge server's compute utilization.
type ServerLoad struct {
	CPUPct float64
	RAMPct float64
}

// serverLoadFallback is deliberately neutral: CPU/RAM field formats
// differ across tool versions, and "unknown" must not masquerade as
// healthy (0) or saturated (100).
var serverLoadFallback = ServerLoad{CPUPct: 50, RAMPct: 50}

// top prints "96.7%id" or "96.7 id" depending on version.
var idleRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%?\s*id`)

// CollectServerLoad reads CPU and memory utilization from the server
// node. A transport failure on either query degrades the whole pair to
// the neutral fallback; a parse miss degrades only the affected value.
func CollectServerLoad(exec execx.Executor, server string) ServerLoad {
	cpuOut, cpuErr := exec.Output(server, "top -bn1 | grep Cpu")
	ramOut, ramErr := exec.Output(server, "free -m")
	if (cpuErr != nil && cpuOut == "") || (ramErr != nil && ramOut == "") {
		return serverLoadFallback
	}
	return ServerLoad{
		CPUPct: ParseCPU(cpuOut),
		RAMPct: ParseRAM(ramOut),
	}
}

// ParseCPU derives utilization as 100 - idle from a top snapshot's
// Cpu(s) line, falling back to neutral when no idle field is present.
func ParseCPU(out string) float64 {
	m := idleRe.FindStringSubmatch(out)
	if m == nil {
		return serverLoadFallback.CPUPct
	}
	idle, err := strconv.ParseFloat(m[1], 64)
	if err != nil || idle < 0 || idle > 100 {
		return serverLoadFallback.CPUPct
	}
	return 100 - idle
}

// ParseRAM computes used*100/total from the Mem: line of free -m
// output (second line: total, used, free, ...).
func ParseRAM(out string) float64 {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || !strings.HasPrefix(fields[0], "Mem") {
			continue
		}
		total, err1 := strconv.ParseFloat(fields[1], 64)
		used, err2 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil || total <= 0 {
			return serverLoadFallback.RAMPct
		}
		return used * 100 / total
	}
	return serverLoadFallback.RAMPct
}
