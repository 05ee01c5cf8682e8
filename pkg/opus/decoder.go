package opus

// For go build: use pkg-config to find system libopus
// For bazel build: cdeps provides opus headers and library

/*
#cgo pkg-config: opus
#include <opus.h>
*/
import "C"
import (
	"unsafe"
)

// Decoder wraps a native Opus decoder.
//
// A Decoder is not safe for concurrent use; callers must serialize access
// or use one decoder per goroutine.
type Decoder struct {
	sampleRate int
	channels   int
	cDec       *C.OpusDecoder
}

// NewDecoder creates a new Opus decoder.
//
// Parameters:
//   - sampleRate: sample rate to decode at (8000, 12000, 16000, 24000, or 48000)
//   - channels: number of channels (1 or 2)
func NewDecoder(sampleRate, channels int) (*Decoder, error) {
	var cerr C.int
	cDec := C.opus_decoder_create(C.opus_int32(sampleRate), C.int(channels), &cerr)
	if cerr != C.OPUS_OK {
		return nil, &InitError{What: "decoder", Code: Error(cerr)}
	}
	return &Decoder{
		sampleRate: sampleRate,
		channels:   channels,
		cDec:       cDec,
	}, nil
}

// Close releases the native decoder. It is safe to call more than once.
func (d *Decoder) Close() {
	if d.cDec != nil {
		C.opus_decoder_destroy(d.cDec)
		d.cDec = nil
	}
}

// Decode decodes one Opus frame to PCM samples.
//
// An empty frame requests packet loss concealment for one maximum-length
// frame, following the native library convention for a lost packet.
// Returns the decoded PCM as bytes (int16 samples, little-endian,
// interleaved). The returned slice is freshly allocated on every call.
func (d *Decoder) Decode(f Frame) ([]byte, error) {
	buf := make([]int16, MaxFrameSamples*d.channels)
	n, err := d.DecodeTo(f, buf)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&buf[0])), 2*n*d.channels), nil
}

// DecodeTo decodes one Opus frame into the provided PCM buffer. The buffer
// must hold at least one full frame (frameSamples*channels samples).
// Returns the number of samples per channel decoded.
func (d *Decoder) DecodeTo(f Frame, buf []int16) (int, error) {
	if d.cDec == nil {
		return 0, ErrClosed
	}
	if len(buf) == 0 {
		return 0, &DecodeError{Code: ErrBufferTooSmall}
	}

	// nil data with zero length signals packet loss to libopus.
	var dataPtr *C.uchar
	var dataLen C.opus_int32
	if len(f) > 0 {
		dataPtr = (*C.uchar)(unsafe.Pointer(&f[0]))
		dataLen = C.opus_int32(len(f))
	}

	n := C.opus_decode(d.cDec, dataPtr, dataLen,
		(*C.opus_int16)(unsafe.Pointer(&buf[0])), C.int(len(buf)/d.channels),
		0 /* decode_fec */)
	if n < 0 {
		return 0, &DecodeError{Code: Error(n)}
	}
	return int(n), nil
}

// DecodePLC generates the given number of concealment samples per channel
// for a lost packet.
func (d *Decoder) DecodePLC(samples int) ([]byte, error) {
	if d.cDec == nil {
		return nil, ErrClosed
	}

	buf := make([]int16, samples*d.channels)
	n := C.opus_decode(d.cDec, nil, 0,
		(*C.opus_int16)(unsafe.Pointer(&buf[0])), C.int(samples), 0)
	if n < 0 {
		return nil, &DecodeError{Code: Error(n)}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&buf[0])), 2*int(n)*d.channels), nil
}

// SampleRate returns the sample rate of this decoder.
func (d *Decoder) SampleRate() int {
	return d.sampleRate
}

// Channels returns the number of channels of this decoder.
func (d *Decoder) Channels() int {
	return d.channels
}
