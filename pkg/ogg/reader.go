package ogg

import (
	"bytes"
	"errors"
	"io"
	"iter"

	jogg "github.com/jonas747/ogg"

	"github.com/haivivi/opuskit/pkg/opus"
)

// ErrBadIDPage is returned when an OpusHead header is malformed.
var ErrBadIDPage = errors.New("ogg: malformed OpusHead header")

// Head is the parsed OpusHead identification header (RFC 7845 §5.1).
type Head struct {
	Version    uint8
	Channels   int
	PreSkip    int
	SampleRate int // original input rate; playback is always 48kHz
	OutputGain int16
	Mapping    uint8
}

// parseHead parses an OpusHead packet.
func parseHead(data []byte) (Head, error) {
	if len(data) < 19 || !bytes.HasPrefix(data, []byte(idPageSignature)) {
		return Head{}, ErrBadIDPage
	}
	return Head{
		Version:    data[8],
		Channels:   int(data[9]),
		PreSkip:    int(uint16(data[10]) | uint16(data[11])<<8),
		SampleRate: int(uint32(data[12]) | uint32(data[13])<<8 | uint32(data[14])<<16 | uint32(data[15])<<24),
		OutputGain: int16(uint16(data[16]) | uint16(data[17])<<8),
		Mapping:    data[18],
	}, nil
}

// isOpusHeader checks if the packet is an OpusHead or OpusTags header.
func isOpusHeader(data []byte) bool {
	if len(data) < 8 {
		return false
	}
	return bytes.HasPrefix(data, []byte(idPageSignature)) || bytes.HasPrefix(data, []byte(commentPageSignature))
}

// OpusReader reads Opus frames from an OGG container.
// The caller is responsible for closing the underlying io.Reader.
type OpusReader struct {
	dec  *jogg.PacketDecoder
	head Head
	seen bool
}

// NewOpusReader creates a new OGG Opus reader.
func NewOpusReader(r io.Reader) *OpusReader {
	return &OpusReader{
		dec: jogg.NewPacketDecoder(jogg.NewDecoder(r)),
	}
}

// Head returns the stream's identification header. The second return is
// false until the OpusHead packet has been read.
func (r *OpusReader) Head() (Head, bool) {
	return r.head, r.seen
}

// Next returns the next Opus frame. It skips OpusHead and OpusTags
// packets, recording the identification header on the way. Returns io.EOF
// when the container is exhausted.
func (r *OpusReader) Next() (opus.Frame, error) {
	for {
		packet, _, err := r.dec.Decode()
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, io.EOF
			}
			return nil, err
		}

		if isOpusHeader(packet) {
			if !r.seen && bytes.HasPrefix(packet, []byte(idPageSignature)) {
				head, err := parseHead(packet)
				if err != nil {
					return nil, err
				}
				r.head = head
				r.seen = true
			}
			continue
		}

		// Skip empty packets (e.g., EOS-only pages).
		if len(packet) == 0 {
			continue
		}

		return opus.Frame(packet), nil
	}
}

// ReadFrames reads Opus frames from an OGG container.
// It returns an iterator that yields Frame and error pairs.
//
// Example:
//
//	for frame, err := range ogg.ReadFrames(file) {
//	    if err != nil {
//	        return err
//	    }
//	    // process frame
//	}
func ReadFrames(r io.Reader) iter.Seq2[opus.Frame, error] {
	return func(yield func(opus.Frame, error) bool) {
		or := NewOpusReader(r)
		for {
			frame, err := or.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				yield(nil, err)
				return
			}
			if !yield(frame, nil) {
				return
			}
		}
	}
}
