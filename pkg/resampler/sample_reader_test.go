package resampler

import (
	"bytes"
	"io"
	"testing"
)

func TestSampleReader_ExactMultiple(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	r := newSampleReader(bytes.NewReader(data), 4)

	buf := make([]byte, 8)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if n != 8 {
		t.Fatalf("Read returned %d, want 8", n)
	}
	if !bytes.Equal(buf[:n], data) {
		t.Fatalf("Read got %v, want %v", buf[:n], data)
	}
}

func TestSampleReader_PartialFrame(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6} // 6 bytes, frame size 4
	r := newSampleReader(bytes.NewReader(data), 4)

	buf := make([]byte, 8)

	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("First Read error: %v", err)
	}
	if n != 4 {
		t.Fatalf("First Read returned %d, want 4", n)
	}

	// Stream ends mid-frame.
	n, err = r.Read(buf)
	if err != io.ErrUnexpectedEOF {
		t.Fatalf("Second Read error = %v, want io.ErrUnexpectedEOF", err)
	}
	if n != 2 {
		t.Fatalf("Second Read returned %d, want 2", n)
	}
}

func TestSampleReader_ShortBuffer(t *testing.T) {
	r := newSampleReader(bytes.NewReader([]byte{1, 2, 3, 4}), 4)

	buf := make([]byte, 2)
	if _, err := r.Read(buf); err != io.ErrShortBuffer {
		t.Fatalf("Read error = %v, want io.ErrShortBuffer", err)
	}
}

func TestSampleReader_BufferNotMultiple(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	r := newSampleReader(bytes.NewReader(data), 4)

	// 6-byte buffer truncates to one 4-byte frame.
	buf := make([]byte, 6)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if n != 4 {
		t.Fatalf("Read returned %d, want 4", n)
	}
}

func TestSampleReader_EmptyReader(t *testing.T) {
	r := newSampleReader(bytes.NewReader(nil), 4)

	buf := make([]byte, 8)
	n, err := r.Read(buf)
	if err != io.EOF {
		t.Fatalf("Read error = %v, want io.EOF", err)
	}
	if n != 0 {
		t.Fatalf("Read returned %d, want 0", n)
	}
}
