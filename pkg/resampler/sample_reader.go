package resampler

import "io"

// sampleReader wraps an io.Reader and ensures each Read returns a
// multiple of frameSize bytes. Partial frames are buffered until the
// next call completes them.
type sampleReader struct {
	// holds leftover bytes (up to frameSize-1)
	buffer []byte

	// number of valid bytes in buffer
	buffered int

	frameSize int

	r io.Reader
}

func newSampleReader(r io.Reader, frameSize int) *sampleReader {
	return &sampleReader{
		buffer:    make([]byte, frameSize-1), // max remainder is frameSize-1
		frameSize: frameSize,
		r:         r,
	}
}

// Read reads data into p, returning 0 or a multiple of frameSize bytes.
// Returns io.ErrShortBuffer if len(p) < frameSize. A stream ending in
// the middle of a frame yields io.ErrUnexpectedEOF.
func (sr *sampleReader) Read(p []byte) (n int, err error) {
	if len(p) < sr.frameSize {
		return 0, io.ErrShortBuffer
	}

	// Truncate p to a multiple of frameSize
	p = p[:len(p)/sr.frameSize*sr.frameSize]
	if sr.buffered > 0 {
		n = copy(p, sr.buffer[:sr.buffered])
		sr.buffered = 0
	}

	rn, err := sr.r.Read(p[n:])
	n += rn
	if err != nil {
		if n%sr.frameSize != 0 && err == io.EOF {
			return n, io.ErrUnexpectedEOF
		}
		return n, err
	}
	if mod := n % sr.frameSize; mod != 0 {
		// Save unaligned remainder for next call
		n -= mod
		copy(sr.buffer[:mod], p[n:n+mod])
		sr.buffered = mod
	}
	return n, nil
}
