package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/opuskit/pkg/cli"
	"github.com/haivivi/opuskit/pkg/ogg"
	"github.com/haivivi/opuskit/pkg/opus"
	"github.com/haivivi/opuskit/pkg/pcm"
	"github.com/haivivi/opuskit/pkg/resampler"
)

// EncodeRequest describes an encode job, loadable from a YAML or JSON
// file with -f.
type EncodeRequest struct {
	Input         string `yaml:"input" json:"input"`
	Output        string `yaml:"output" json:"output"`
	InputRate     int    `yaml:"input_rate,omitempty" json:"input_rate,omitempty"`
	InputChannels int    `yaml:"input_channels,omitempty" json:"input_channels,omitempty"`
	Rate          int    `yaml:"rate,omitempty" json:"rate,omitempty"`
	Channels      int    `yaml:"channels,omitempty" json:"channels,omitempty"`
	Application   string `yaml:"application,omitempty" json:"application,omitempty"`
	Bitrate       int    `yaml:"bitrate,omitempty" json:"bitrate,omitempty"`
	Complexity    int    `yaml:"complexity,omitempty" json:"complexity,omitempty"`
	FrameMs       int    `yaml:"frame_ms,omitempty" json:"frame_ms,omitempty"`
}

var encodeCmd = &cobra.Command{
	Use:   "encode [input.raw]",
	Short: "Encode raw L16 PCM to Ogg Opus",
	Long: `Encode raw little-endian 16-bit PCM into an Ogg Opus file.

The input is read from a file, or stdin when the argument is "-".
Input at a rate the codec does not accept is resampled first.

Examples:
  opuskit encode capture.raw --input-rate 16000 -o capture.opus
  cat capture.raw | opuskit encode - --input-rate 44100 --bitrate 96000 -o music.opus
  opuskit encode -f job.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEncode,
}

var (
	encodeReqFile string
	encodeReq     EncodeRequest
)

func init() {
	f := encodeCmd.Flags()
	f.StringVarP(&encodeReqFile, "file", "f", "", "encode job file (YAML or JSON)")
	f.StringVarP(&encodeReq.Output, "output", "o", "", "output file (default stdout)")
	f.IntVar(&encodeReq.InputRate, "input-rate", 0, "input sample rate (default: same as --rate)")
	f.IntVar(&encodeReq.InputChannels, "input-channels", 0, "input channel count (default: same as --channels)")
	f.IntVar(&encodeReq.Rate, "rate", 0, "coded sample rate: 8000, 12000, 16000, 24000 or 48000 (default 48000)")
	f.IntVar(&encodeReq.Channels, "channels", 0, "coded channel count: 1 or 2 (default 1)")
	f.StringVar(&encodeReq.Application, "application", "", "encoder profile: voip, audio or lowdelay (default audio)")
	f.IntVar(&encodeReq.Bitrate, "bitrate", 0, "target bitrate in bit/s (default: encoder automatic)")
	f.IntVar(&encodeReq.Complexity, "complexity", -1, "encoder complexity 0-10 (default: encoder automatic)")
	f.IntVar(&encodeReq.FrameMs, "frame-ms", 0, "frame duration in ms: 10, 20, 40 or 60 (default 20)")

	rootCmd.AddCommand(encodeCmd)
}

// applyProfile fills unset request fields from a CLI profile.
func (req *EncodeRequest) applyProfile(p *cli.Profile) {
	if p == nil {
		return
	}
	if req.Rate == 0 {
		req.Rate = p.Rate
	}
	if req.Channels == 0 {
		req.Channels = p.Channels
	}
	if req.Application == "" {
		req.Application = p.Application
	}
	if req.Bitrate == 0 {
		req.Bitrate = p.Bitrate
	}
	if req.Complexity < 0 && p.Complexity > 0 {
		req.Complexity = p.Complexity
	}
}

func runEncode(cmd *cobra.Command, args []string) error {
	req := encodeReq
	if encodeReqFile != "" {
		if err := cli.LoadRequest(encodeReqFile, &req); err != nil {
			return err
		}
	}
	if len(args) > 0 {
		req.Input = args[0]
	}
	if req.Input == "" {
		return fmt.Errorf("no input file (pass a path, \"-\" for stdin, or -f job file)")
	}

	profile, err := resolveProfile()
	if err != nil {
		return err
	}
	req.applyProfile(profile)

	app, ok := opus.ParseApplication(req.Application)
	if !ok {
		return fmt.Errorf("unknown application %q (want voip, audio or lowdelay)", req.Application)
	}
	session := opus.NewSession(opus.SessionConfig{
		SampleRate:  req.Rate,
		Channels:    req.Channels,
		Application: app,
	})
	defer session.Close()

	if req.Bitrate > 0 {
		if err := session.SetBitrate(req.Bitrate); err != nil {
			return fmt.Errorf("set bitrate: %w", err)
		}
	}
	if req.Complexity >= 0 {
		enc, err := session.Encoder()
		if err != nil {
			return err
		}
		if err := enc.SetComplexity(req.Complexity); err != nil {
			return fmt.Errorf("set complexity: %w", err)
		}
	}

	in, err := openInput(req.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	codedFmt := pcm.Format{Rate: session.SampleRate(), Channels: session.Channels()}
	inputFmt := codedFmt
	if req.InputRate > 0 {
		inputFmt.Rate = req.InputRate
	}
	if req.InputChannels > 0 {
		inputFmt.Channels = req.InputChannels
	}

	var src io.Reader = in
	if inputFmt != codedFmt {
		rs, err := resampler.New(in, inputFmt, codedFmt)
		if err != nil {
			return err
		}
		defer rs.Close()
		src = rs
	}

	out, err := openOutput(req.Output)
	if err != nil {
		return err
	}
	defer out.Close()

	ow, err := ogg.NewOpusWriter(out, session.SampleRate(), session.Channels())
	if err != nil {
		return err
	}
	defer ow.Close()

	frameMs := req.FrameMs
	if frameMs == 0 {
		frameMs = 20
	}
	frameDur := time.Duration(frameMs) * time.Millisecond
	frameBytes := int(codedFmt.BytesInDuration(frameDur))
	if frameBytes == 0 {
		return fmt.Errorf("invalid frame duration %dms", frameMs)
	}

	buf := make([]byte, frameBytes)
	var frames int
	var bytesIn, bytesOut int64
	for {
		n, err := io.ReadFull(src, buf)
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			// Pad the trailing partial frame with silence.
			clear(buf[n:])
		} else if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		bytesIn += int64(n)

		frame, encErr := session.Encode(buf)
		if encErr != nil {
			return fmt.Errorf("encode: %w", encErr)
		}
		if wErr := ow.Write(frame); wErr != nil {
			return fmt.Errorf("write ogg: %w", wErr)
		}
		frames++
		bytesOut += int64(len(frame))

		if err == io.ErrUnexpectedEOF {
			break
		}
	}

	cli.PrintVerbose(IsVerbose(), "encoded %d frames, %s in, %s out",
		frames, cli.FormatBytes(bytesIn), cli.FormatBytes(bytesOut))
	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
