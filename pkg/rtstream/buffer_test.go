package rtstream

import (
	"io"
	"testing"
	"time"

	"github.com/haivivi/opuskit/pkg/opus"
)

func TestBuffer(t *testing.T) {
	buf := NewBuffer(1 * time.Minute)

	// TOC 0x00 = config 0, mono, code 0: SILK narrowband 10ms.
	frames := []struct {
		stamp EpochMillis
		data  opus.Frame
	}{
		{100, opus.Frame{0x00, 0x00}},
		{110, opus.Frame{0x00, 0x00}},
		{120, opus.Frame{0x00, 0x00}},
	}

	for _, f := range frames {
		if err := buf.Append(f.data, f.stamp); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	if buf.Len() != 3 {
		t.Errorf("Len() = %d, want 3", buf.Len())
	}

	frameCount := 0
	for {
		frame, loss, err := buf.Frame()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Frame() failed: %v", err)
		}
		if frame != nil {
			frameCount++
		} else if loss > 0 {
			t.Logf("Loss detected: %v", loss)
		}
	}

	if frameCount != 3 {
		t.Errorf("Got %d frames, want 3", frameCount)
	}
}

func TestBufferOutOfOrder(t *testing.T) {
	buf := NewBuffer(1 * time.Minute)

	// Arrival order != timestamp order.
	buf.Append(opus.Frame{0x00}, 120)
	buf.Append(opus.Frame{0x00}, 100)
	buf.Append(opus.Frame{0x00}, 110)

	var stamps []EpochMillis
	lastEnd := EpochMillis(0)
	for {
		frame, loss, err := buf.Frame()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Frame() failed: %v", err)
		}
		if loss > 0 {
			lastEnd += FromDuration(loss)
			continue
		}
		stamps = append(stamps, lastEnd)
		lastEnd += FromDuration(frame.Duration())
	}

	if len(stamps) != 3 {
		t.Fatalf("Got %d frames, want 3", len(stamps))
	}
}

func TestBufferLossDetection(t *testing.T) {
	buf := NewBuffer(1 * time.Minute)

	buf.Append(opus.Frame{0x00}, 100)
	buf.Append(opus.Frame{0x00}, 200) // ~90ms gap

	frame, loss, err := buf.Frame()
	if err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}
	if loss > 0 {
		t.Errorf("Unexpected loss on first frame: %v", loss)
	}
	if frame == nil {
		t.Error("First frame is nil")
	}

	frame, loss, err = buf.Frame()
	if err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}
	if frame != nil {
		t.Error("Expected loss report, got frame")
	}
	if loss != 90*time.Millisecond {
		t.Errorf("loss = %v, want 90ms", loss)
	}

	// The delayed frame itself comes next.
	frame, loss, err = buf.Frame()
	if err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}
	if frame == nil || loss > 0 {
		t.Errorf("Expected frame after loss, got frame=%v loss=%v", frame, loss)
	}
}

func TestBufferReset(t *testing.T) {
	buf := NewBuffer(1 * time.Minute)

	buf.Append(opus.Frame{0x00}, 100)
	buf.Append(opus.Frame{0x00}, 120)

	if buf.Len() != 2 {
		t.Errorf("Len() = %d, want 2", buf.Len())
	}

	buf.Reset()

	if buf.Len() != 0 {
		t.Errorf("After Reset(), Len() = %d, want 0", buf.Len())
	}
	if buf.Buffered() != 0 {
		t.Errorf("After Reset(), Buffered() = %v, want 0", buf.Buffered())
	}
}

func TestBufferWrite(t *testing.T) {
	buf := NewBuffer(1 * time.Minute)

	frame := opus.Frame{0x00}
	stamped := Stamp(frame, 1000)

	n, err := buf.Write(stamped)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != len(stamped) {
		t.Errorf("Write() = %d, want %d", n, len(stamped))
	}

	if buf.Len() != 1 {
		t.Errorf("Len() = %d, want 1", buf.Len())
	}
}

func TestBufferWriteInvalid(t *testing.T) {
	buf := NewBuffer(1 * time.Minute)

	if _, err := buf.Write([]byte{0x01}); err != ErrInvalidFrame {
		t.Errorf("Write() = %v, want ErrInvalidFrame", err)
	}
}

func TestBufferDisorderedPacket(t *testing.T) {
	buf := NewBuffer(1 * time.Minute)

	buf.Append(opus.Frame{0x00}, 100)
	buf.Append(opus.Frame{0x00}, 120)

	// Advance tail past 100.
	buf.Frame()

	if err := buf.Append(opus.Frame{0x00}, 50); err != ErrDisorderedPacket {
		t.Errorf("Expected ErrDisorderedPacket, got %v", err)
	}
}

func TestBufferWriteDisordered(t *testing.T) {
	buf := NewBuffer(1 * time.Minute)

	if _, err := buf.Write(Stamp(opus.Frame{0x00}, 100)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// Advance tail past 100.
	buf.Frame()

	if _, err := buf.Write(Stamp(opus.Frame{0x00}, 50)); err != ErrDisorderedPacket {
		t.Errorf("Write() = %v, want ErrDisorderedPacket", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Len() = %d, want 0", buf.Len())
	}
}

func TestBufferMaxDuration(t *testing.T) {
	buf := NewBuffer(50 * time.Millisecond)

	for i := range 10 {
		buf.Append(opus.Frame{0x00}, EpochMillis(i*20))
	}

	if buf.Buffered() > 100*time.Millisecond {
		t.Errorf("Buffered() = %v, should be limited", buf.Buffered())
	}
}
