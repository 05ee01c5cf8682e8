package rtstream

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/haivivi/opuskit/pkg/opus"
)

func TestJournalRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	j := NewJournal(&buf)

	frames := []struct {
		stamp EpochMillis
		data  opus.Frame
	}{
		{1000, opus.Frame{0x00, 0x01}},
		{1010, opus.Frame{0x00, 0x02}},
		{1020, opus.Frame{0x00, 0x03}},
	}

	for _, f := range frames {
		if err := j.Append(f.data, f.stamp); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r := NewJournalReader(&buf)
	for i, want := range frames {
		frame, loss, err := r.Frame()
		if err != nil {
			t.Fatalf("Frame() %d failed: %v", i, err)
		}
		if loss != 0 {
			t.Errorf("Frame() %d loss = %v, want 0", i, loss)
		}
		if !bytes.Equal(frame, want.data) {
			t.Errorf("Frame() %d = %x, want %x", i, frame, want.data)
		}
	}

	if _, _, err := r.Frame(); err != io.EOF {
		t.Errorf("Expected EOF at end of journal, got %v", err)
	}
}

func TestJournalLossReplay(t *testing.T) {
	var buf bytes.Buffer
	j := NewJournal(&buf)

	// 10ms frame at 1000, then a 40ms gap.
	j.Append(opus.Frame{0x00}, 1000)
	j.Append(opus.Frame{0x00}, 1050)
	j.Close()

	r := NewJournalReader(&buf)

	frame, loss, err := r.Frame()
	if err != nil || frame == nil || loss != 0 {
		t.Fatalf("first frame = %v loss = %v err = %v", frame, loss, err)
	}

	frame, loss, err = r.Frame()
	if err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}
	if frame != nil || loss != 40*time.Millisecond {
		t.Errorf("frame = %v loss = %v, want nil/40ms", frame, loss)
	}

	// The frame after the gap is delivered next.
	frame, loss, err = r.Frame()
	if err != nil || frame == nil || loss != 0 {
		t.Errorf("frame after gap = %v loss = %v err = %v", frame, loss, err)
	}
}

func TestJournalWriteStamped(t *testing.T) {
	var buf bytes.Buffer
	j := NewJournal(&buf)

	frame := opus.Frame{0x00, 0xAB}
	stamped := Stamp(frame, 2000)

	n, err := j.Write(stamped)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != len(stamped) {
		t.Errorf("Write() = %d, want %d", n, len(stamped))
	}
	j.Close()

	r := NewJournalReader(&buf)
	got, _, err := r.Frame()
	if err != nil {
		t.Fatalf("Frame() failed: %v", err)
	}
	if !bytes.Equal(got, frame) {
		t.Errorf("Frame() = %x, want %x", got, frame)
	}
}

func TestJournalAppendAfterClose(t *testing.T) {
	var buf bytes.Buffer
	j := NewJournal(&buf)
	j.Close()

	if err := j.Append(opus.Frame{0x00}, 0); err != ErrJournalClosed {
		t.Errorf("Append after Close = %v, want ErrJournalClosed", err)
	}
}

func TestJournalEntries(t *testing.T) {
	var buf bytes.Buffer
	j := NewJournal(&buf)
	j.Append(opus.Frame{0x00}, 10)
	j.Append(opus.Frame{0x00}, 20)
	j.Close()

	r := NewJournalReader(&buf)
	var stamps []EpochMillis
	for e, err := range r.Entries() {
		if err != nil {
			t.Fatalf("Entries failed: %v", err)
		}
		stamps = append(stamps, e.Stamp)
	}
	if len(stamps) != 2 || stamps[0] != 10 || stamps[1] != 20 {
		t.Errorf("stamps = %v, want [10 20]", stamps)
	}
}
