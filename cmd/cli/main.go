package main

import (
	"os"

	"github.com/homeserv-dev/homeserv/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
