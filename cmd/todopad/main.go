// Command todopad is a single-list to-do manager with a terminal UI.
package main

import (
	"os"

	"todopad/cmd/todopad/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args[1:], os.Stdout, os.Stderr, nil))
}
