// Package cli provides common utilities for opuskit command-line tools.
//
// This package includes:
//   - Configuration management (named encoding profiles)
//   - Output formatting (JSON, YAML, raw)
//   - Request file loading (YAML/JSON)
//   - Terminal UI helpers
//
// Configuration is stored in ~/.opuskit/config.yaml, supporting multiple
// profiles similar to kubectl contexts.
//
// Example usage:
//
//	// Initialize config for your app
//	cfg, err := cli.LoadConfig("opuskit")
//
//	// Resolve the active profile
//	profile, err := cfg.ResolveProfile("")
//
//	// Output result
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    File:   outputPath,
//	})
package cli
