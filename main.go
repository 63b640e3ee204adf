package main

import (
	"github.com/decocms/mcps/cmd"
)

func main() {
	// Execute the root command.
	cmd.Execute()
}
