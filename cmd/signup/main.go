package main

import (
	"os"

	"github.com/kbukum/signup/cmd/signup/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
