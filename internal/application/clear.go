package application

import (
	"io"
	"os/exec"
	"runtime"
)

// ClearScreen returns a function that clears the terminal attached to out
// using the host's own command.
func ClearScreen(out io.Writer) func() {
	return func() {
		var cmd *exec.Cmd
		if runtime.GOOS == "windows" {
			cmd = exec.Command("cmd", "/c", "cls")
		} else {
			cmd = exec.Command("clear")
		}
		cmd.Stdout = out
		_ = cmd.Run() // a missing clear command only leaves old output on screen
	}
}
