package resampler

import (
	"fmt"
	"io"
	"sync"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/haivivi/opuskit/pkg/pcm"
)

// Resampler wraps an io.Reader and converts audio from one pcm.Format
// to another. It supports sample rate conversion and mono/stereo
// channel conversion. The resampler must be closed with Close() to
// release resources.
type Resampler interface {
	io.ReadCloser
	CloseWithError(error) error
}

// Soxr converts a PCM stream between formats using a pure Go
// resampling engine (no CGO/FFI dependencies).
type Soxr struct {
	srcFmt pcm.Format
	src    io.Reader

	dstFmt  pcm.Format
	readBuf []byte

	mu            sync.Mutex
	closeErr      error
	resampler     resampling.Resampler
	leftover      []byte
	needsResample bool
}

// New creates a Resampler that converts audio from srcFmt to dstFmt.
// Formats must be mono or stereo L16.
func New(src io.Reader, srcFmt, dstFmt pcm.Format) (Resampler, error) {
	if srcFmt.Channels < 1 || srcFmt.Channels > 2 || dstFmt.Channels < 1 || dstFmt.Channels > 2 {
		return nil, fmt.Errorf("resampler: unsupported channel count (src=%d dst=%d)", srcFmt.Channels, dstFmt.Channels)
	}

	needsResample := srcFmt.Rate != dstFmt.Rate

	var engine resampling.Resampler
	if needsResample {
		config := &resampling.Config{
			InputRate:  float64(srcFmt.Rate),
			OutputRate: float64(dstFmt.Rate),
			Channels:   dstFmt.Channels,
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		}
		var err error
		engine, err = resampling.New(config)
		if err != nil {
			return nil, fmt.Errorf("failed to create resampler: %w", err)
		}
	}

	rs := &Soxr{
		srcFmt: srcFmt,
		src:    newSampleReader(src, srcFmt.FrameBytes()),

		dstFmt: dstFmt,

		resampler:     engine,
		needsResample: needsResample,
	}

	return rs, nil
}

// Read copies converted audio data into p. It returns the number of
// bytes written and any encountered error. Not safe for concurrent use.
func (r *Soxr) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if len(p) < r.dstFmt.FrameBytes() {
		return 0, io.ErrShortBuffer
	}

	// Truncate p to a whole number of frames
	p = p[:len(p)/r.dstFmt.FrameBytes()*r.dstFmt.FrameBytes()]

	r.mu.Lock()
	defer r.mu.Unlock()

	// First return any leftover data
	if len(r.leftover) > 0 {
		n := copy(p, r.leftover)
		r.leftover = r.leftover[n:]
		return n, nil
	}

	if r.closeErr != nil {
		return 0, r.closeErr
	}

	return r.readAndProcess(p)
}

func (r *Soxr) readAndProcess(p []byte) (int, error) {
	if !r.needsResample {
		// No sample rate conversion, just channel conversion
		return r.readPassthrough(p)
	}

	// Estimate how much source data we need based on the rate ratio
	ratio := float64(r.srcFmt.Rate) / float64(r.dstFmt.Rate)
	srcBytesNeeded := int(float64(len(p))*ratio) + r.srcFmt.FrameBytes()*4

	if cap(r.readBuf) < srcBytesNeeded {
		r.readBuf = make([]byte, srcBytesNeeded)
	}

	bytesRead, readErr := r.readSourceWithChannelConv(srcBytesNeeded)
	if bytesRead == 0 {
		if readErr != nil {
			return 0, readErr
		}
		return 0, io.EOF
	}

	// Convert bytes to float64 samples (normalized to -1.0 to 1.0)
	numChannels := r.dstFmt.Channels
	numFrames := bytesRead / (2 * numChannels)
	input := make([]float64, numFrames*numChannels)

	for i := 0; i < numFrames*numChannels; i++ {
		sample := int16(r.readBuf[i*2]) | int16(r.readBuf[i*2+1])<<8
		input[i] = float64(sample) / 32768.0
	}

	output, err := r.resampler.Process(input)
	if err != nil {
		return 0, fmt.Errorf("resample error: %w", err)
	}

	if len(output) == 0 {
		if readErr != nil {
			return 0, readErr
		}
		return 0, nil
	}

	// Convert back to int16 bytes with clipping
	outputBytes := make([]byte, len(output)*2)
	for i, s := range output {
		sample := int16(s * 32767.0)
		if s > 1.0 {
			sample = 32767
		} else if s < -1.0 {
			sample = -32768
		}
		outputBytes[i*2] = byte(sample)
		outputBytes[i*2+1] = byte(sample >> 8)
	}

	// Align output to whole frames
	outputLen := (len(outputBytes) / r.dstFmt.FrameBytes()) * r.dstFmt.FrameBytes()
	outputBytes = outputBytes[:outputLen]

	n := copy(p, outputBytes)
	if len(outputBytes) > n {
		r.leftover = append(r.leftover, outputBytes[n:]...)
	}

	return n, readErr
}

func (r *Soxr) readPassthrough(p []byte) (int, error) {
	n, err := r.readSourceWithChannelConv(len(p))
	if n == 0 {
		return 0, err
	}
	copy(p, r.readBuf[:n])
	return n, err
}

// readSourceWithChannelConv reads from source and handles mono/stereo
// conversion in r.readBuf.
func (r *Soxr) readSourceWithChannelConv(dstLen int) (int, error) {
	if cap(r.readBuf) < dstLen {
		r.readBuf = make([]byte, dstLen)
	}

	if r.srcFmt.Channels == 2 && r.dstFmt.Channels == 1 {
		// Downmixing stereo to mono: need double the source data
		srcLen := dstLen * 2
		if cap(r.readBuf) < srcLen {
			r.readBuf = make([]byte, srcLen)
		}
		rn, err := r.src.Read(r.readBuf[:srcLen])
		if rn == 0 {
			return 0, err
		}
		return stereoToMono(r.readBuf[:rn]), err
	}

	if r.srcFmt.Channels == r.dstFmt.Channels {
		return r.src.Read(r.readBuf[:dstLen])
	}

	// Upmixing mono to stereo
	rn, err := r.src.Read(r.readBuf[:dstLen/2])
	if rn == 0 {
		return 0, err
	}
	return monoToStereo(r.readBuf[:rn*2]), err
}

// Close releases resources and marks the resampler as closed.
// Subsequent Read calls will return io.ErrClosedPipe.
func (r *Soxr) Close() error {
	return r.CloseWithError(fmt.Errorf("resampler: %w", io.ErrClosedPipe))
}

// CloseWithError releases resources with a custom error. Subsequent
// Read calls will return the provided error.
func (r *Soxr) CloseWithError(err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closeErr == nil {
		r.closeErr = err
	}
	r.resampler = nil
	return nil
}

// stereoToMono converts stereo 16-bit samples to mono in-place by
// averaging L and R channels.
func stereoToMono(b []byte) int {
	numFrames := len(b) / 4
	for i := range numFrames {
		j := i * 4
		k := i * 2
		l := int16(b[j]) | int16(b[j+1])<<8
		r := int16(b[j+2]) | int16(b[j+3])<<8
		m := int16((int32(l) + int32(r)) / 2)
		b[k] = byte(m)
		b[k+1] = byte(m >> 8)
	}
	return numFrames * 2
}

// monoToStereo converts mono 16-bit samples to stereo in-place by
// duplicating each sample.
func monoToStereo(b []byte) int {
	stereoLen := len(b)
	numSamples := stereoLen / 4
	for i := numSamples - 1; i >= 0; i-- {
		s0, s1 := b[i*2], b[i*2+1]
		j := i * 4
		b[j], b[j+1] = s0, s1
		b[j+2], b[j+3] = s0, s1
	}
	return stereoLen
}
