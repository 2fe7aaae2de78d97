package main

import (
	"os"

	"github.com/quantum-lang/quantum/cmd/quantum/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
