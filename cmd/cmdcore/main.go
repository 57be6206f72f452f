package main

import (
	"os"

	"github.com/msto63/cmdcore/cmd/cmdcore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
