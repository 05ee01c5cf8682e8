package opus

// For go build: use pkg-config to find system libopus
// For bazel build: cdeps provides opus headers and library

/*
#cgo pkg-config: opus
#include <opus.h>

// Wrapper functions for variadic opus_encoder_ctl
static int opuskit_encoder_set_bitrate(OpusEncoder *enc, opus_int32 bitrate) {
    return opus_encoder_ctl(enc, OPUS_SET_BITRATE(bitrate));
}

static int opuskit_encoder_get_bitrate(OpusEncoder *enc, opus_int32 *bitrate) {
    return opus_encoder_ctl(enc, OPUS_GET_BITRATE(bitrate));
}

static int opuskit_encoder_set_complexity(OpusEncoder *enc, opus_int32 complexity) {
    return opus_encoder_ctl(enc, OPUS_SET_COMPLEXITY(complexity));
}
*/
import "C"
import (
	"errors"
	"unsafe"
)

// ErrClosed is returned when using an encoder or decoder after Close.
var ErrClosed = errors.New("opus: codec state is closed")

// Encoder wraps a native Opus encoder.
//
// An Encoder is not safe for concurrent use; callers must serialize access
// or use one encoder per goroutine.
type Encoder struct {
	sampleRate  int
	channels    int
	application Application
	cEnc        *C.OpusEncoder
}

// NewEncoder creates a new Opus encoder.
//
// Parameters:
//   - sampleRate: sample rate of the input signal (8000, 12000, 16000, 24000, or 48000)
//   - channels: number of channels (1 or 2)
//   - application: encoder tuning profile (AppVoIP, AppAudio, AppRestrictedLowDelay)
func NewEncoder(sampleRate, channels int, application Application) (*Encoder, error) {
	var cerr C.int
	cEnc := C.opus_encoder_create(C.opus_int32(sampleRate), C.int(channels), C.int(application), &cerr)
	if cerr != C.OPUS_OK {
		return nil, &InitError{What: "encoder", Code: Error(cerr)}
	}
	return &Encoder{
		sampleRate:  sampleRate,
		channels:    channels,
		application: application,
		cEnc:        cEnc,
	}, nil
}

// Close releases the native encoder. It is safe to call more than once.
func (e *Encoder) Close() {
	if e.cEnc != nil {
		C.opus_encoder_destroy(e.cEnc)
		e.cEnc = nil
	}
}

// Encode encodes one frame of PCM samples to an Opus frame.
//
// pcm must contain frameSize*channels interleaved samples, where frameSize
// is a frame length the codec accepts (2.5, 5, 10, 20, 40 or 60 ms worth
// of samples per channel at the encoder's sample rate).
func (e *Encoder) Encode(pcm []int16, frameSize int) (Frame, error) {
	buf := make([]byte, MaxPacketSize)
	n, err := e.EncodeTo(pcm, frameSize, buf)
	if err != nil {
		return nil, err
	}
	return Frame(buf[:n]), nil
}

// EncodeTo encodes one frame of PCM samples into the provided buffer.
// The buffer length caps the packet size. Returns the number of bytes
// written.
func (e *Encoder) EncodeTo(pcm []int16, frameSize int, buf []byte) (int, error) {
	if e.cEnc == nil {
		return 0, ErrClosed
	}
	if len(pcm) == 0 || len(buf) == 0 {
		return 0, &EncodeError{Code: ErrBadArg}
	}

	n := C.opus_encode(e.cEnc,
		(*C.opus_int16)(unsafe.Pointer(&pcm[0])), C.int(frameSize),
		(*C.uchar)(unsafe.Pointer(&buf[0])), C.opus_int32(len(buf)))
	if n < 0 {
		return 0, &EncodeError{Code: Error(n)}
	}
	return int(n), nil
}

// SampleRate returns the sample rate of this encoder.
func (e *Encoder) SampleRate() int {
	return e.sampleRate
}

// Channels returns the number of channels of this encoder.
func (e *Encoder) Channels() int {
	return e.channels
}

// Application returns the tuning profile of this encoder.
func (e *Encoder) Application() Application {
	return e.application
}

// SetBitrate sets the target bitrate in bits per second.
func (e *Encoder) SetBitrate(bitrate int) error {
	if e.cEnc == nil {
		return ErrClosed
	}
	if ret := C.opuskit_encoder_set_bitrate(e.cEnc, C.opus_int32(bitrate)); ret != C.OPUS_OK {
		return Error(ret)
	}
	return nil
}

// Bitrate returns the current target bitrate in bits per second.
func (e *Encoder) Bitrate() (int, error) {
	if e.cEnc == nil {
		return 0, ErrClosed
	}
	var bitrate C.opus_int32
	if ret := C.opuskit_encoder_get_bitrate(e.cEnc, &bitrate); ret != C.OPUS_OK {
		return 0, Error(ret)
	}
	return int(bitrate), nil
}

// SetComplexity sets the encoder's computational complexity (0-10).
func (e *Encoder) SetComplexity(complexity int) error {
	if e.cEnc == nil {
		return ErrClosed
	}
	if ret := C.opuskit_encoder_set_complexity(e.cEnc, C.opus_int32(complexity)); ret != C.OPUS_OK {
		return Error(ret)
	}
	return nil
}

// FrameSizeForDuration returns the frame size (samples per channel) for a
// given frame duration at this encoder's sample rate.
func (e *Encoder) FrameSizeForDuration(fd FrameDuration) int {
	return e.sampleRate * int(fd.Millis()) / 1000
}

// FrameSize20ms returns the frame size for 20ms frames (recommended default).
func (e *Encoder) FrameSize20ms() int {
	return e.sampleRate * 20 / 1000
}
