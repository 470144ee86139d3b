//go:build !windows

// Package process terminates browser process trees left behind by go-rod.
package process

import "syscall"

// KillTree sends SIGKILL to the process group led by pid, which takes the
// Chrome renderer and GPU helpers down with the browser.
// PIDs <= 1 are ignored: -0 and -1 would target our own group or every process.
func KillTree(pid int) {
	if pid <= 1 {
		return
	}
	// Best-effort: the launcher's own Kill runs after this.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
