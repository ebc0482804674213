package main

import (
	"os"

	"github.com/counsel-labs/lexora/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
