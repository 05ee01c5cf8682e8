package resampler

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/haivivi/opuskit/pkg/pcm"
)

// sinePCM generates n mono samples of a 440Hz tone at the given rate.
func sinePCM(n, rate int) []byte {
	out := make([]byte, n*2)
	for i := range n {
		v := int16(8000 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

func readAll(t *testing.T, r io.Reader) []byte {
	t.Helper()
	var out bytes.Buffer
	buf := make([]byte, 4096)
	for range 10000 {
		n, err := r.Read(buf)
		out.Write(buf[:n])
		if err == io.EOF {
			return out.Bytes()
		}
		if err != nil {
			t.Fatalf("Read error: %v", err)
		}
	}
	t.Fatal("reader never returned EOF")
	return nil
}

func TestPassthrough(t *testing.T) {
	src := sinePCM(480, 48000)
	r, err := New(bytes.NewReader(src), pcm.L16Mono48K, pcm.L16Mono48K)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Close()

	got := readAll(t, r)
	if !bytes.Equal(got, src) {
		t.Errorf("passthrough changed data: %d bytes in, %d bytes out", len(src), len(got))
	}
}

func TestMonoToStereo(t *testing.T) {
	src := sinePCM(100, 48000)
	r, err := New(bytes.NewReader(src), pcm.L16Mono48K, pcm.L16Stereo48K)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Close()

	got := readAll(t, r)
	if len(got) != len(src)*2 {
		t.Fatalf("got %d bytes, want %d", len(got), len(src)*2)
	}

	// Each output frame duplicates the mono sample in both channels.
	for i := 0; i < len(src); i += 2 {
		mono := src[i : i+2]
		left := got[i*2 : i*2+2]
		right := got[i*2+2 : i*2+4]
		if !bytes.Equal(mono, left) || !bytes.Equal(mono, right) {
			t.Fatalf("frame %d: mono=%v left=%v right=%v", i/2, mono, left, right)
		}
	}
}

func TestStereoToMono(t *testing.T) {
	// Two stereo frames: (100, 200) and (-100, -300).
	src := make([]byte, 8)
	binary.LittleEndian.PutUint16(src[0:], uint16(int16(100)))
	binary.LittleEndian.PutUint16(src[2:], uint16(int16(200)))
	neg100 := int16(-100)
	neg300 := int16(-300)
	binary.LittleEndian.PutUint16(src[4:], uint16(neg100))
	binary.LittleEndian.PutUint16(src[6:], uint16(neg300))

	r, err := New(bytes.NewReader(src), pcm.L16Stereo48K, pcm.L16Mono48K)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Close()

	got := readAll(t, r)
	if len(got) != 4 {
		t.Fatalf("got %d bytes, want 4", len(got))
	}

	first := int16(binary.LittleEndian.Uint16(got[0:]))
	second := int16(binary.LittleEndian.Uint16(got[2:]))
	if first != 150 {
		t.Errorf("first sample = %d, want 150", first)
	}
	if second != -200 {
		t.Errorf("second sample = %d, want -200", second)
	}
}

func TestRateConversion(t *testing.T) {
	// 100ms of 16kHz mono -> 48kHz mono should roughly triple.
	src := sinePCM(1600, 16000)
	r, err := New(bytes.NewReader(src), pcm.L16Mono16K, pcm.L16Mono48K)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Close()

	got := readAll(t, r)

	want := len(src) * 3
	// Resampler filter latency trims some samples at the edges.
	if len(got) < want/2 || len(got) > want*2 {
		t.Errorf("got %d bytes, want around %d", len(got), want)
	}
	if len(got)%2 != 0 {
		t.Errorf("output not sample aligned: %d bytes", len(got))
	}
}

func TestUnsupportedChannels(t *testing.T) {
	_, err := New(bytes.NewReader(nil), pcm.Format{Rate: 48000, Channels: 6}, pcm.L16Mono48K)
	if err == nil {
		t.Fatal("New accepted 6-channel format")
	}
}

func TestReadAfterClose(t *testing.T) {
	r, err := New(bytes.NewReader(sinePCM(100, 48000)), pcm.L16Mono48K, pcm.L16Mono48K)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	r.Close()

	buf := make([]byte, 16)
	if _, err := r.Read(buf); err == nil {
		t.Error("Read after Close should fail")
	}
}

func TestShortBuffer(t *testing.T) {
	r, err := New(bytes.NewReader(sinePCM(100, 48000)), pcm.L16Mono48K, pcm.L16Stereo48K)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer r.Close()

	buf := make([]byte, 2) // smaller than a stereo frame
	if _, err := r.Read(buf); err != io.ErrShortBuffer {
		t.Errorf("Read = %v, want io.ErrShortBuffer", err)
	}
}
