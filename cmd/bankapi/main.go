package main

import (
	"os"

	"github.com/jpbaz28/Banking-API/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
