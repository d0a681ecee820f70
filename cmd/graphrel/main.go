package main

import (
	"os"

	"github.com/meikuraledutech/graphrel/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
