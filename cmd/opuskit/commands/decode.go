package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/haivivi/opuskit/pkg/cli"
	"github.com/haivivi/opuskit/pkg/ogg"
	"github.com/haivivi/opuskit/pkg/opus"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <input.opus>",
	Short: "Decode Ogg Opus to raw L16 PCM",
	Long: `Decode an Ogg Opus file into raw little-endian 16-bit PCM.

Output is always at 48kHz with the stream's channel count; pipe through
'opuskit encode' or an external tool to convert further.

Examples:
  opuskit decode music.opus -o music.raw
  opuskit decode music.opus | aplay -f S16_LE -r 48000`,
	Args: cobra.ExactArgs(1),
	RunE: runDecode,
}

var decodeOutput string

func init() {
	decodeCmd.Flags().StringVarP(&decodeOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	in, err := openInput(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := openOutput(decodeOutput)
	if err != nil {
		return err
	}
	defer out.Close()

	or := ogg.NewOpusReader(in)

	var session *opus.Session
	defer func() {
		if session != nil {
			session.Close()
		}
	}()

	var frames int
	var bytesOut int64
	for {
		frame, err := or.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read ogg: %w", err)
		}

		if session == nil {
			channels := 1
			if head, ok := or.Head(); ok {
				channels = int(head.Channels)
			}
			session = opus.NewSession(opus.SessionConfig{
				SampleRate: 48000,
				Channels:   channels,
			})
		}

		pcmData, err := session.Decode(frame)
		if err != nil {
			return fmt.Errorf("decode frame %d: %w", frames, err)
		}
		if _, err := out.Write(pcmData); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		frames++
		bytesOut += int64(len(pcmData))
	}

	cli.PrintVerbose(IsVerbose(), "decoded %d frames, %s of PCM",
		frames, cli.FormatBytes(bytesOut))
	return nil
}
