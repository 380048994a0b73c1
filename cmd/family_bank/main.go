package main

import (
	"os"

	"github.com/SscSPs/family_bank/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
