package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/haivivi/opuskit/pkg/cli"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage encoding profiles",
	Long: `Manage named encoding profiles.

A profile bundles codec settings (rate, channels, application, bitrate,
complexity) under a name. The active profile applies to encode jobs
unless overridden by flags.

Examples:
  opuskit profile add voice --rate 48000 --application voip --bitrate 32000
  opuskit profile use voice
  opuskit profile list
  opuskit profile show voice
  opuskit profile delete voice`,
}

var profileFlags cli.Profile

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		p := profileFlags
		if err := cfg.AddProfile(args[0], &p); err != nil {
			return err
		}
		cli.PrintSuccess("profile %q saved", args[0])
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the current profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseProfile(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("current profile is %q", args[0])
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		names := cfg.ListProfiles()
		sort.Strings(names)
		for _, name := range names {
			marker := " "
			if name == cfg.CurrentProfile {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, name)
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		p, err := cfg.ResolveProfile(name)
		if err != nil {
			return err
		}
		return cli.Output(p, cli.OutputOptions{Format: cli.FormatYAML})
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeleteProfile(args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("profile %q deleted", args[0])
		return nil
	},
}

func init() {
	f := profileAddCmd.Flags()
	f.IntVar(&profileFlags.Rate, "rate", 48000, "coded sample rate")
	f.IntVar(&profileFlags.Channels, "channels", 1, "coded channel count")
	f.StringVar(&profileFlags.Application, "application", "audio", "encoder profile: voip, audio or lowdelay")
	f.IntVar(&profileFlags.Bitrate, "bitrate", 0, "target bitrate in bit/s")
	f.IntVar(&profileFlags.Complexity, "complexity", 0, "encoder complexity 0-10")

	profileCmd.AddCommand(profileAddCmd, profileUseCmd, profileListCmd, profileShowCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}
