//go:build unix

package supervise

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the worker into its own process group, so termination
// signals also reach subprocesses the worker spawned that share its pipes.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// signalGroup signals the worker's process group: SIGTERM for the graceful
// request, SIGKILL when force is set. Falls back to signalling the single
// process when the group is already gone.
func signalGroup(cmd *exec.Cmd, force bool) error {
	sig := syscall.SIGTERM
	if force {
		sig = syscall.SIGKILL
	}
	if err := syscall.Kill(-cmd.Process.Pid, sig); err == nil {
		return nil
	}
	return cmd.Process.Signal(sig)
}
