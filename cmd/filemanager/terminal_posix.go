//go:build !windows

package main

// handleTerminalCompatibility automatically restarts the current process
// inside a terminal compatibility emulator if necessary. No terminal
// emulation is required on POSIX systems.
func handleTerminalCompatibility() {}
