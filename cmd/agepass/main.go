package main

import (
	"os"

	"agepass/cmd/agepass/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
