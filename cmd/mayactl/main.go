// Command mayactl looks up KIN numbers and Maya birthdays from the terminal.
package main

import (
	"os"

	"github.com/zapponejosh/maya-kin/internal/cli/commands"
	"github.com/zapponejosh/maya-kin/internal/cli/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		ui.PrintError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
