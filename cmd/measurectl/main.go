package main

import (
	"os"

	"github.com/ignite/measure-agent/cmd/measurectl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
