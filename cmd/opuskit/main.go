// Package main is the entry point for the opuskit CLI.
//
// Usage:
//
//	opuskit [flags] <command> [args]
//
// Commands:
//
//	encode     - Encode raw L16 PCM to Ogg Opus
//	decode     - Decode Ogg Opus to raw L16 PCM
//	info       - Inspect an Ogg Opus file
//	journal    - Work with frame journals (info, export)
//	profile    - Manage encoding profiles
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/opuskit/cmd/opuskit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
