package execx

import (
	"bytes"
	"os/exec"
)

// Executor abstracts "run a command on a named emulated node" so the
// collectors can be unit-tested without a live Mininet-WiFi topology.
// Output returns the combined stdout+stderr text of the command; probe
// tools report their results on either stream depending on version.
type Executor interface {
	Output(node string, command string) (string, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(node, command string) (string, error)

func (f ExecutorFunc) Output(node, command string) (string, error) {
	return f(node, command)
}

// MininetExecutor runs commands inside emulated nodes through the
// Mininet attach helper (util/m), which wraps mnexec for a running
// topology. The helper receives the node name followed by the command.
type MininetExecutor struct {
	// Helper is the attach command, e.g. "m" or an absolute path to
	// mininet/util/m on the host running the emulation.
	Helper string
}

func NewMininetExecutor(helper string) *MininetExecutor {
	if helper == "" {
		helper = "m"
	}
	return &MininetExecutor{Helper: helper}
}

func (e *MininetExecutor) Output(node, command string) (string, error) {
	cmd := exec.Command(e.Helper, append([]string{node}, Argv(command)...)...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	// Partial output is still worth parsing: ping exits non-zero on
	// 100% loss but prints the loss summary anyway.
	return buf.String(), err
}

// Argv wraps a shell command line for the attach helper. Probe commands
// use pipes and redirection, so they run under sh rather than being
// split into fields here.
func Argv(command string) []string {
	return []string{"sh", "-c", command}
}
