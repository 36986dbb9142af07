// Package main is the entry point for the reliefctl operator CLI.
package main

import (
	"os"

	"github.com/mr1hm/go-disaster-relief/cmd/reliefctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
