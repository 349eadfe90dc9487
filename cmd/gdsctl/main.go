package main

import (
	"os"

	"github.com/GlintPay/gds/cmd/gdsctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
