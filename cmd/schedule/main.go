package main

import (
	"os"

	"github.com/amyrzhang/productionSchedule/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
