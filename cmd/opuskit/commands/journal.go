package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/opuskit/pkg/cli"
	"github.com/haivivi/opuskit/pkg/ogg"
	"github.com/haivivi/opuskit/pkg/opus"
	"github.com/haivivi/opuskit/pkg/rtstream"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Work with frame journals",
	Long: `Work with frame journals: msgpack recordings of timestamped Opus
frames, as written by rtstream.Journal.

Examples:
  opuskit journal info session.mpk
  opuskit journal export session.mpk -o session.opus`,
}

// JournalInfo is the inspection result for a frame journal.
type JournalInfo struct {
	Frames   int    `yaml:"frames" json:"frames"`
	Bytes    int64  `yaml:"bytes" json:"bytes"`
	Duration string `yaml:"duration" json:"duration"`
	Lost     string `yaml:"lost" json:"lost"`
	Start    string `yaml:"start,omitempty" json:"start,omitempty"`
	End      string `yaml:"end,omitempty" json:"end,omitempty"`
}

var journalInfoCmd = &cobra.Command{
	Use:   "info <journal.mpk>",
	Short: "Inspect a frame journal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		jr := rtstream.NewJournalReader(in)
		info := &JournalInfo{}
		var played time.Duration
		var first, last rtstream.EpochMillis
		for e, err := range jr.Entries() {
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}
			if info.Frames == 0 {
				first = e.Stamp
			}
			frame := opus.Frame(e.Frame)
			last = e.Stamp + rtstream.FromDuration(frame.Duration())
			info.Frames++
			info.Bytes += int64(len(e.Frame))
			played += frame.Duration()
		}
		info.Duration = cli.FormatDuration(int(played.Milliseconds()))
		if info.Frames > 0 {
			wall := last.Sub(first)
			if gap := wall - played; gap > 0 {
				info.Lost = cli.FormatDuration(int(gap.Milliseconds()))
			} else {
				info.Lost = cli.FormatDuration(0)
			}
			info.Start = first.Time().UTC().Format(time.RFC3339)
			info.End = last.Time().UTC().Format(time.RFC3339)
		}

		return cli.Output(info, cli.OutputOptions{})
	},
}

var journalExportOutput string

var journalExportCmd = &cobra.Command{
	Use:   "export <journal.mpk>",
	Short: "Export a frame journal to Ogg Opus",
	Long: `Export a frame journal to an Ogg Opus file.

Timestamp gaps in the recording become granule position jumps in the
Ogg stream, so players keep the original timing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := openOutput(journalExportOutput)
		if err != nil {
			return err
		}
		defer out.Close()

		jr := rtstream.NewJournalReader(in)

		var ow *ogg.OpusWriter
		var frames int
		for {
			frame, loss, err := jr.Frame()
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}
			if loss > 0 {
				if ow != nil {
					// Advance the granule clock over the hole.
					ow.SetGranule(ow.Granule() + int64(loss*48000/time.Second))
				}
				continue
			}

			if ow == nil {
				channels := 1
				if frame.IsStereo() {
					channels = 2
				}
				ow, err = ogg.NewOpusWriter(out, 48000, channels)
				if err != nil {
					return err
				}
				defer ow.Close()
			}

			if err := ow.Write(frame); err != nil {
				return fmt.Errorf("write ogg: %w", err)
			}
			frames++
		}

		if frames == 0 {
			return fmt.Errorf("journal holds no frames")
		}
		cli.PrintVerbose(IsVerbose(), "exported %d frames", frames)
		return nil
	},
}

func init() {
	journalExportCmd.Flags().StringVarP(&journalExportOutput, "output", "o", "", "output file (default stdout)")
	journalCmd.AddCommand(journalInfoCmd, journalExportCmd)
	rootCmd.AddCommand(journalCmd)
}
