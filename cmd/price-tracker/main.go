// Package main is the entry point for price-tracker.
package main

import (
	"os"

	"github.com/hafoozi/price-tracker/cmd/price-tracker/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
