// Command wt coordinates agent status across git worktrees.
package main

import (
	"os"

	"github.com/groblegark/wtstatus/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
