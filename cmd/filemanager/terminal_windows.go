//go:build windows

package main

import (
	"os"
	"os/exec"

	"github.com/pkg/errors"

	isatty "github.com/mattn/go-isatty"

	"github.com/arxiv/filemanager/internal/cmdutil"
)

// handleTerminalCompatibility automatically restarts the current process
// inside a terminal compatibility emulator if necessary. It currently only
// handles the case of mintty consoles on Windows requiring a relaunch of the
// current command inside winpty, since Cobra's prompts render incorrectly
// there otherwise.
func handleTerminalCompatibility() {
	if !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return
	}

	winpty, err := exec.LookPath("winpty")
	if err != nil {
		cmdutil.Fatal(errors.New("running inside mintty terminal and unable to locate winpty"))
	}

	executable, err := os.Executable()
	if err != nil {
		cmdutil.Fatal(errors.Wrap(err, "running inside mintty terminal and unable to locate current executable"))
	}

	arguments := make([]string, 0, len(os.Args))
	arguments = append(arguments, executable)
	arguments = append(arguments, os.Args[1:]...)

	command := exec.Command(winpty, arguments...)
	command.Stdin = os.Stdin
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr

	command.Run()
	os.Exit(command.ProcessState.ExitCode())
}
