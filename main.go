// Package main is shawl's entry point.
package main

import (
	"fmt"
	"os"

	"github.com/mtkennerly/shawl-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
