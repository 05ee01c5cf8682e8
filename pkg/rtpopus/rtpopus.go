// Package rtpopus packs Opus frames into RTP packets and back.
//
// It follows RFC 7587 (RTP payload format for Opus): a 48kHz RTP clock
// regardless of the coded sample rate, one Opus packet per RTP payload,
// and dynamic payload type 111 by convention.
package rtpopus

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"time"

	"github.com/pion/rtp"

	"github.com/haivivi/opuskit/pkg/opus"
)

// PayloadType is the conventional dynamic payload type for Opus.
const PayloadType = 111

// ClockRate is the RTP clock rate for Opus. Always 48kHz per RFC 7587.
const ClockRate = 48000

// ErrEmptyFrame is returned when packetizing a zero-length frame.
var ErrEmptyFrame = errors.New("rtpopus: empty frame")

// ErrNotOpus is returned when a packet's payload type does not match.
var ErrNotOpus = errors.New("rtpopus: unexpected payload type")

// Packetizer wraps Opus frames into RTP packets with monotonic
// sequence numbers and a 48kHz timestamp derived from frame durations.
type Packetizer struct {
	// PayloadType overrides the default payload type (111) if non-zero.
	PayloadType uint8

	ssrc      uint32
	seq       uint16
	timestamp uint32
}

// NewPacketizer creates a packetizer with a random SSRC and random
// initial sequence number and timestamp, as RFC 3550 recommends.
func NewPacketizer() *Packetizer {
	var b [8]byte
	rand.Read(b[:])
	return &Packetizer{
		ssrc:      binary.BigEndian.Uint32(b[:4]),
		seq:       binary.BigEndian.Uint16(b[4:6]),
		timestamp: binary.BigEndian.Uint32(b[4:]),
	}
}

// SSRC returns the synchronization source identifier.
func (p *Packetizer) SSRC() uint32 { return p.ssrc }

func (p *Packetizer) payloadType() uint8 {
	if p.PayloadType != 0 {
		return p.PayloadType
	}
	return PayloadType
}

// Packetize wraps one Opus frame into an RTP packet. The timestamp
// advances by the frame's duration at the 48kHz clock, so variable
// frame sizes stay aligned.
func (p *Packetizer) Packetize(frame opus.Frame) (*rtp.Packet, error) {
	if len(frame) == 0 {
		return nil, ErrEmptyFrame
	}

	packet := &rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    p.payloadType(),
			SequenceNumber: p.seq,
			Timestamp:      p.timestamp,
			SSRC:           p.ssrc,
		},
		Payload: frame,
	}

	p.seq++
	p.timestamp += timestampIncrement(frame)
	return packet, nil
}

// Marshal packetizes a frame and serializes it to wire bytes.
func (p *Packetizer) Marshal(frame opus.Frame) ([]byte, error) {
	packet, err := p.Packetize(frame)
	if err != nil {
		return nil, err
	}
	return packet.Marshal()
}

// timestampIncrement returns the 48kHz clock increment covered by a
// frame. Falls back to 20ms for frames whose TOC cannot be parsed.
func timestampIncrement(frame opus.Frame) uint32 {
	d := frame.Duration()
	if d == 0 {
		d = 20 * time.Millisecond
	}
	return uint32(d * ClockRate / time.Second)
}

// Depacketizer extracts Opus frames from RTP packets and tracks
// sequence gaps so downstream jitter handling can report loss.
type Depacketizer struct {
	// Strict rejects packets whose payload type is not the Opus one.
	Strict bool

	lastSeq uint16
	started bool
}

// Depacketize extracts the Opus frame from an RTP packet.
//
// lost reports how many packets went missing before this one, based on
// sequence number gaps. It is 0 for the first packet and for in-order
// delivery.
func (d *Depacketizer) Depacketize(packet *rtp.Packet) (frame opus.Frame, lost int, err error) {
	if d.Strict && packet.PayloadType != PayloadType {
		return nil, 0, ErrNotOpus
	}

	if d.started {
		// Sequence arithmetic wraps at 16 bits.
		if gap := packet.SequenceNumber - d.lastSeq; gap > 1 && gap < 1<<15 {
			lost = int(gap) - 1
		}
	}
	d.started = true
	d.lastSeq = packet.SequenceNumber

	return opus.Frame(packet.Payload), lost, nil
}

// Unmarshal parses wire bytes and extracts the Opus frame.
func (d *Depacketizer) Unmarshal(data []byte) (opus.Frame, int, error) {
	var packet rtp.Packet
	if err := packet.Unmarshal(data); err != nil {
		return nil, 0, err
	}
	return d.Depacketize(&packet)
}
