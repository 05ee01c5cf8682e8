package opus

import (
	"errors"
	"unsafe"
)

// ErrPCMLength is returned by Session.Encode when the input length is not a
// whole number of interleaved int16 sample groups (channels * 2 bytes).
// The check runs before the native layer so a short tail byte cannot be
// silently dropped by integer division.
var ErrPCMLength = errors.New("opus: pcm length is not a multiple of channels*2 bytes")

// SessionConfig holds the immutable configuration of a Session.
// Changing rate, channels or profile requires a new session.
type SessionConfig struct {
	// SampleRate in Hz (default 48000).
	SampleRate int

	// Channels is the interleaved channel count (default 1).
	Channels int

	// Application is the encoder tuning profile (default AppAudio).
	Application Application
}

func (c *SessionConfig) setDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = 48000
	}
	if c.Channels == 0 {
		c.Channels = 1
	}
	if c.Application == 0 {
		c.Application = AppAudio
	}
}

// Session binds a fixed sample rate, channel count and application profile
// to a lazily constructed encoder/decoder pair.
//
// The encoder materializes on the first Encode, SetBitrate or Bitrate call;
// the decoder on the first Decode call. Once materialized a handle stays
// alive until Close. A failed encode or decode leaves the handles intact.
//
// A Session is not safe for concurrent use: the lazily initialized handles
// are mutated in place without synchronization. Use one session per
// goroutine or serialize access externally.
type Session struct {
	cfg   SessionConfig
	state sessionState
}

// sessionState carries the lazily materialized codec handles.
type sessionState struct {
	enc *Encoder
	dec *Decoder
}

// NewSession creates a session with the given configuration. Native
// resources are not acquired until first use, so construction cannot fail;
// an invalid rate/channel combination surfaces as InitError on the first
// operation that needs the handle.
func NewSession(cfg SessionConfig) *Session {
	cfg.setDefaults()
	return &Session{cfg: cfg}
}

// SampleRate returns the session's sample rate in Hz.
func (s *Session) SampleRate() int { return s.cfg.SampleRate }

// Channels returns the session's channel count.
func (s *Session) Channels() int { return s.cfg.Channels }

// Application returns the session's encoder tuning profile.
func (s *Session) Application() Application { return s.cfg.Application }

// Encoder returns the session's encoder, materializing it on first call.
func (s *Session) Encoder() (*Encoder, error) {
	if s.state.enc != nil {
		return s.state.enc, nil
	}
	enc, err := NewEncoder(s.cfg.SampleRate, s.cfg.Channels, s.cfg.Application)
	if err != nil {
		return nil, err
	}
	s.state.enc = enc
	return enc, nil
}

// Decoder returns the session's decoder, materializing it on first call.
func (s *Session) Decoder() (*Decoder, error) {
	if s.state.dec != nil {
		return s.state.dec, nil
	}
	dec, err := NewDecoder(s.cfg.SampleRate, s.cfg.Channels)
	if err != nil {
		return nil, err
	}
	s.state.dec = dec
	return dec, nil
}

// Encode compresses one frame of raw PCM bytes (16-bit signed,
// little-endian, interleaved) into an Opus frame of at most MaxPacketSize
// bytes. The frame length per channel is derived from the input length and
// must be a size the codec accepts.
//
// The returned frame is freshly allocated; it stays valid after further
// calls on the session.
func (s *Session) Encode(pcm []byte) (Frame, error) {
	buf := make([]byte, MaxPacketSize)
	n, err := s.EncodeTo(pcm, buf)
	if err != nil {
		return nil, err
	}
	return Frame(buf[:n]), nil
}

// EncodeTo compresses one frame of raw PCM bytes into buf. The buffer
// length caps the packet size; if the encoder cannot fit the packet the
// native layer reports ErrBufferTooSmall rather than truncating. Returns
// the number of bytes written.
func (s *Session) EncodeTo(pcm, buf []byte) (int, error) {
	if len(pcm) == 0 {
		return 0, &EncodeError{Code: ErrBadArg}
	}
	if len(pcm)%(2*s.cfg.Channels) != 0 {
		return 0, ErrPCMLength
	}
	enc, err := s.Encoder()
	if err != nil {
		return 0, err
	}
	samples := unsafe.Slice((*int16)(unsafe.Pointer(&pcm[0])), len(pcm)/2)
	frameSize := len(pcm) / 2 / s.cfg.Channels
	return enc.EncodeTo(samples, frameSize, buf)
}

// Decode decompresses one Opus packet to raw PCM bytes (16-bit signed,
// little-endian, interleaved). An empty packet signals packet loss and
// yields a concealment frame instead of an error. The returned slice is
// freshly allocated on every call.
func (s *Session) Decode(packet []byte) ([]byte, error) {
	dec, err := s.Decoder()
	if err != nil {
		return nil, err
	}
	return dec.Decode(Frame(packet))
}

// SetBitrate sets the encoder's target bitrate in bits per second,
// materializing the encoder if needed.
func (s *Session) SetBitrate(bitrate int) error {
	enc, err := s.Encoder()
	if err != nil {
		return err
	}
	return enc.SetBitrate(bitrate)
}

// Bitrate returns the encoder's current target bitrate in bits per second,
// materializing the encoder if needed.
func (s *Session) Bitrate() (int, error) {
	enc, err := s.Encoder()
	if err != nil {
		return 0, err
	}
	return enc.Bitrate()
}

// Close releases both codec handles. It is safe to call more than once.
func (s *Session) Close() {
	if s.state.enc != nil {
		s.state.enc.Close()
		s.state.enc = nil
	}
	if s.state.dec != nil {
		s.state.dec.Close()
		s.state.dec = nil
	}
}
