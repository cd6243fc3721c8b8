// Package main is the entry point for the pricecalc CLI.
package main

import (
	"os"

	"order-pricing-api/cmd/pricecalc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
