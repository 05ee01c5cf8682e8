package opus

import (
	"errors"
	"math"
	"testing"
)

// sineFrame generates frameSize samples per channel of interleaved PCM as
// little-endian bytes. Each channel gets its own frequency.
func sineFrame(sampleRate, channels, frameSize int) []byte {
	buf := make([]byte, frameSize*channels*2)
	for i := 0; i < frameSize; i++ {
		ti := float64(i) / float64(sampleRate)
		for ch := 0; ch < channels; ch++ {
			freq := 440.0 * float64(ch+1)
			v := int16(math.Sin(2*math.Pi*freq*ti) * 16000)
			off := (i*channels + ch) * 2
			buf[off] = byte(v)
			buf[off+1] = byte(v >> 8)
		}
	}
	return buf
}

func TestSessionDefaults(t *testing.T) {
	s := NewSession(SessionConfig{})
	defer s.Close()

	if s.SampleRate() != 48000 {
		t.Errorf("SampleRate() = %d, want 48000", s.SampleRate())
	}
	if s.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", s.Channels())
	}
	if s.Application() != AppAudio {
		t.Errorf("Application() = %v, want %v", s.Application(), AppAudio)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s := NewSession(SessionConfig{})
	defer s.Close()

	frameSize := 960 // 20ms at 48kHz
	pcm := sineFrame(48000, 1, frameSize)

	frame, err := s.Encode(pcm)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if len(frame) == 0 {
		t.Fatal("empty frame")
	}
	if len(frame) > MaxPacketSize {
		t.Fatalf("frame of %d bytes exceeds MaxPacketSize", len(frame))
	}

	decoded, err := s.Decode(frame)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got := len(decoded) / 2; got != frameSize {
		t.Errorf("decoded %d samples, want %d", got, frameSize)
	}
}

func TestSessionStereo(t *testing.T) {
	s := NewSession(SessionConfig{Channels: 2})
	defer s.Close()

	frameSize := 960
	pcm := sineFrame(48000, 2, frameSize)

	frame, err := s.Encode(pcm)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !frame.IsStereo() {
		t.Error("expected stereo frame")
	}

	decoded, err := s.Decode(frame)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got := len(decoded) / 2 / 2; got != frameSize {
		t.Errorf("decoded %d samples per channel, want %d", got, frameSize)
	}
}

func TestSessionEncodeOddLength(t *testing.T) {
	s := NewSession(SessionConfig{Channels: 2})
	defer s.Close()

	pcm := sineFrame(48000, 2, 960)
	if _, err := s.Encode(pcm[:len(pcm)-1]); !errors.Is(err, ErrPCMLength) {
		t.Errorf("encode of odd-length pcm: err = %v, want ErrPCMLength", err)
	}
}

func TestSessionEncodeBadFrameSize(t *testing.T) {
	s := NewSession(SessionConfig{})
	defer s.Close()

	// 961 samples per channel is not a frame length libopus accepts.
	pcm := make([]byte, 961*2)
	_, err := s.Encode(pcm)
	var encErr *EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("encode of bad frame size: err = %v, want EncodeError", err)
	}
	if encErr.Code != ErrBadArg {
		t.Errorf("code = %d, want ErrBadArg", int(encErr.Code))
	}
}

func TestSessionEncodeTo(t *testing.T) {
	s := NewSession(SessionConfig{})
	defer s.Close()

	pcm := sineFrame(48000, 1, 960)
	buf := make([]byte, MaxPacketSize)
	n, err := s.EncodeTo(pcm, buf)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if n <= 0 || n > len(buf) {
		t.Fatalf("wrote %d bytes, want 1..%d", n, len(buf))
	}
}

func TestSessionDecodeEmptyPacket(t *testing.T) {
	s := NewSession(SessionConfig{})
	defer s.Close()

	// Prime the decoder so concealment has state to extrapolate from.
	frame, err := s.Encode(sineFrame(48000, 1, 960))
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if _, err := s.Decode(frame); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	// Empty packet signals loss: expect a concealment frame, not an error.
	decoded, err := s.Decode(nil)
	if err != nil {
		t.Fatalf("decode of empty packet failed: %v", err)
	}
	if len(decoded) == 0 {
		t.Error("expected concealment samples for empty packet")
	}
}

func TestSessionDecodeCorrupt(t *testing.T) {
	s := NewSession(SessionConfig{})
	defer s.Close()

	// An implausible packet: valid-ish TOC followed by garbage lengths.
	bad := []byte{0xff, 0xff, 0xfe, 0x01, 0x02, 0x03}
	_, err := s.Decode(bad)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("decode of corrupt packet: err = %v, want DecodeError", err)
	}
	if decErr.Error() == "" {
		t.Error("expected a non-empty diagnostic message")
	}

	// A failed decode must not corrupt the session state.
	frame, err := s.Encode(sineFrame(48000, 1, 960))
	if err != nil {
		t.Fatalf("encode after failed decode: %v", err)
	}
	if _, err := s.Decode(frame); err != nil {
		t.Fatalf("decode after failed decode: %v", err)
	}
}

func TestSessionBitrate(t *testing.T) {
	s := NewSession(SessionConfig{})
	defer s.Close()

	if err := s.SetBitrate(64000); err != nil {
		t.Fatalf("SetBitrate failed: %v", err)
	}
	got, err := s.Bitrate()
	if err != nil {
		t.Fatalf("Bitrate failed: %v", err)
	}
	if got != 64000 {
		t.Errorf("Bitrate() = %d, want 64000", got)
	}
}

func TestSessionInitError(t *testing.T) {
	// 44100 is not a sample rate libopus accepts.
	s := NewSession(SessionConfig{SampleRate: 44100})
	defer s.Close()

	_, err := s.Encode(make([]byte, 960*2))
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("err = %v, want InitError", err)
	}
	if initErr.What != "encoder" {
		t.Errorf("What = %q, want \"encoder\"", initErr.What)
	}
	if !errors.Is(err, ErrBadArg) {
		t.Errorf("expected InitError to unwrap to ErrBadArg, got %v", err)
	}
}

func TestSessionLazyHandles(t *testing.T) {
	s := NewSession(SessionConfig{})
	defer s.Close()

	enc1, err := s.Encoder()
	if err != nil {
		t.Fatalf("Encoder() failed: %v", err)
	}
	enc2, err := s.Encoder()
	if err != nil {
		t.Fatalf("Encoder() failed: %v", err)
	}
	if enc1 != enc2 {
		t.Error("Encoder() materialized twice")
	}

	dec1, err := s.Decoder()
	if err != nil {
		t.Fatalf("Decoder() failed: %v", err)
	}
	dec2, err := s.Decoder()
	if err != nil {
		t.Fatalf("Decoder() failed: %v", err)
	}
	if dec1 != dec2 {
		t.Error("Decoder() materialized twice")
	}
}

func TestSessionCloseIdempotent(t *testing.T) {
	s := NewSession(SessionConfig{})
	if _, err := s.Encode(sineFrame(48000, 1, 960)); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	s.Close()
	s.Close()
}

func TestErrorDescriptions(t *testing.T) {
	codes := []Error{
		ErrBadArg, ErrBufferTooSmall, ErrInternalError, ErrInvalidPacket,
		ErrUnimplemented, ErrInvalidState, ErrAllocFail,
	}
	seen := map[string]bool{}
	for _, c := range codes {
		d := c.Description()
		if d == "" || d == "unknown opus error" {
			t.Errorf("code %d: missing description", int(c))
		}
		if seen[d] {
			t.Errorf("code %d: duplicate description %q", int(c), d)
		}
		seen[d] = true
	}
	if Error(-99).Description() != "unknown opus error" {
		t.Errorf("unmapped code should use the generic description")
	}
}
