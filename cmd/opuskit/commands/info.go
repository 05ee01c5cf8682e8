package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/opuskit/pkg/cli"
	"github.com/haivivi/opuskit/pkg/ogg"
)

// StreamInfo is the inspection result for an Ogg Opus file.
type StreamInfo struct {
	Channels   int            `yaml:"channels" json:"channels"`
	SampleRate int            `yaml:"sample_rate" json:"sample_rate"`
	PreSkip    int            `yaml:"pre_skip" json:"pre_skip"`
	Frames     int            `yaml:"frames" json:"frames"`
	Duration   string         `yaml:"duration" json:"duration"`
	Bytes      int64          `yaml:"bytes" json:"bytes"`
	Bitrate    int            `yaml:"bitrate" json:"bitrate"`
	Modes      map[string]int `yaml:"modes" json:"modes"`
	Bandwidths map[string]int `yaml:"bandwidths" json:"bandwidths"`
}

var infoCmd = &cobra.Command{
	Use:   "info <input.opus>",
	Short: "Inspect an Ogg Opus file",
	Long: `Inspect an Ogg Opus file: header fields, frame count, duration and
the mode/bandwidth mix the encoder chose.

Examples:
  opuskit info music.opus
  opuskit info music.opus --format json
  opuskit info music.opus --pretty`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

var (
	infoFormat string
	infoPretty bool
)

func init() {
	infoCmd.Flags().StringVar(&infoFormat, "format", "yaml", "output format: yaml or json")
	infoCmd.Flags().BoolVar(&infoPretty, "pretty", false, "render a framed terminal summary")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	in, err := openInput(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := inspect(in)
	if err != nil {
		return err
	}

	if infoPretty {
		fmt.Println(renderInfo(args[0], info))
		return nil
	}

	return cli.Output(info, cli.OutputOptions{Format: cli.OutputFormat(infoFormat)})
}

func inspect(in io.Reader) (*StreamInfo, error) {
	or := ogg.NewOpusReader(in)

	info := &StreamInfo{
		Modes:      make(map[string]int),
		Bandwidths: make(map[string]int),
	}

	var total time.Duration
	for {
		frame, err := or.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ogg: %w", err)
		}

		info.Frames++
		info.Bytes += int64(len(frame))
		total += frame.Duration()
		info.Modes[frame.Mode().String()]++
		info.Bandwidths[frame.Bandwidth().String()]++
	}

	if head, ok := or.Head(); ok {
		info.Channels = head.Channels
		info.SampleRate = head.SampleRate
		info.PreSkip = head.PreSkip
	}

	info.Duration = cli.FormatDuration(int(total.Milliseconds()))
	if total > 0 {
		info.Bitrate = int(float64(info.Bytes*8) / total.Seconds())
	}
	return info, nil
}

func renderInfo(name string, info *StreamInfo) string {
	styles := cli.NewStyles(cli.DefaultTheme)

	head := func() []string {
		return []string{
			fmt.Sprintf("channels:    %d", info.Channels),
			fmt.Sprintf("input rate:  %d Hz", info.SampleRate),
			fmt.Sprintf("pre-skip:    %d samples", info.PreSkip),
		}
	}
	stream := func() []string {
		lines := []string{
			fmt.Sprintf("frames:   %d", info.Frames),
			fmt.Sprintf("duration: %s", info.Duration),
			fmt.Sprintf("size:     %s", cli.FormatBytes(info.Bytes)),
			fmt.Sprintf("bitrate:  %d bit/s", info.Bitrate),
		}
		for mode, n := range info.Modes {
			lines = append(lines, fmt.Sprintf("mode %s: %d frames", mode, n))
		}
		return lines
	}

	frame := cli.Frame{
		Styles: styles,
		Title:  "opuskit",
		Status: name,
		Sections: []cli.Section{
			{Label: "OpusHead", Content: head},
			{Label: "Stream", Content: stream},
		},
		Help: "opuskit info --format json for machine-readable output",
	}
	return frame.Render(72, 16+len(info.Modes))
}
