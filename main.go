package main

import (
	"os"

	"github.com/hakim/lernix/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
