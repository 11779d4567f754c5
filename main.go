package main

import (
	"os"

	"github.com/goald-codec/goald/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
