// Package main provides toolchainctl, the CLI for inspecting the toolchain configuration.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
