//go:build windows

// Package process terminates browser process trees left behind by go-rod.
package process

import (
	"os/exec"
	"strconv"
)

// KillTree force-kills pid and its children with taskkill (/T = tree).
// PIDs <= 1 are ignored.
func KillTree(pid int) {
	if pid <= 1 {
		return
	}
	// Best-effort: the launcher's own Kill runs after this.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
}
