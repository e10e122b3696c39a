package main

import (
	"os"

	"github.com/forth65/forth65/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
