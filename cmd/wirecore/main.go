package main

import (
	"os"

	"wirecore/cmd/wirecore/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
