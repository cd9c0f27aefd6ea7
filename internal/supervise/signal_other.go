//go:build !unix

package supervise

import "os/exec"

func setProcessGroup(_ *exec.Cmd) {}

// Without process groups the graceful phase degrades to an immediate kill of
// the worker itself; the engine tree is still reaped via the handle channel.
func signalGroup(cmd *exec.Cmd, _ bool) error {
	return cmd.Process.Kill()
}
