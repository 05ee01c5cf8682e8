package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/opuskit/pkg/cli"
)

var (
	// Global flags
	verbose     bool
	configPath  string
	profileName string

	// Global configuration (loaded on first use)
	globalConfig *cli.Config
)

var rootCmd = &cobra.Command{
	Use:   "opuskit",
	Short: "Opus audio toolbox",
	Long: `opuskit - encode, decode and inspect Opus audio.

The toolbox works on raw L16 PCM, Ogg Opus files and frame journals:

  encode     Encode raw L16 PCM to Ogg Opus
  decode     Decode Ogg Opus to raw L16 PCM
  info       Inspect an Ogg Opus file
  journal    Work with frame journals (info, export)
  profile    Manage encoding profiles

Encoding profiles are stored in ~/.opuskit/config.yaml and
selected with --profile, similar to kubectl contexts.

Examples:
  # Encode a 16kHz mono capture at 32kbit/s
  opuskit encode capture.raw --input-rate 16000 --bitrate 32000 -o capture.opus

  # Decode back to PCM
  opuskit decode capture.opus -o capture.raw

  # Save the settings as a profile and reuse them
  opuskit profile add voice --rate 48000 --application voip --bitrate 32000
  opuskit encode capture.raw --profile voice -o capture.opus`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.opuskit/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "encoding profile to use")
}

// IsVerbose reports whether --verbose was set.
func IsVerbose() bool {
	return verbose
}

// GetConfig lazily loads the CLI configuration.
func GetConfig() (*cli.Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}
	cfg, err := cli.LoadConfigWithPath("opuskit", configPath)
	if err != nil {
		return nil, fmt.Errorf("config not available: %w", err)
	}
	globalConfig = cfg
	return cfg, nil
}

// resolveProfile returns the profile selected with --profile, the
// current profile, or nil when no profile is configured.
func resolveProfile() (*cli.Profile, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	if profileName == "" && cfg.CurrentProfile == "" {
		return nil, nil
	}
	return cfg.ResolveProfile(profileName)
}
