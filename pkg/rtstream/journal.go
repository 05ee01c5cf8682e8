package rtstream

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/haivivi/opuskit/pkg/opus"
)

// JournalEntry is one recorded frame. Entries are msgpack-encoded and
// appended to the journal stream in arrival order.
type JournalEntry struct {
	Stamp EpochMillis `msgpack:"t"`
	Frame []byte      `msgpack:"f"`
}

// ErrJournalClosed is returned when appending to a closed journal.
var ErrJournalClosed = errors.New("rtstream: journal is closed")

// Journal records stamped frames to an underlying writer as a stream
// of msgpack entries. A journal file can be replayed later with
// JournalReader, or fed into a Buffer for paced playback.
type Journal struct {
	mu     sync.Mutex
	enc    *msgpack.Encoder
	closer io.Closer
	closed bool
}

// NewJournal creates a journal writing to w. If w implements io.Closer,
// Close closes it.
func NewJournal(w io.Writer) *Journal {
	j := &Journal{enc: msgpack.NewEncoder(w)}
	if c, ok := w.(io.Closer); ok {
		j.closer = c
	}
	return j
}

// Append records a frame with its timestamp.
func (j *Journal) Append(frame opus.Frame, stamp EpochMillis) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrJournalClosed
	}
	return j.enc.Encode(JournalEntry{Stamp: stamp, Frame: frame})
}

// Write implements io.Writer for stamped frame data, so a Journal can
// sit directly behind anything that emits StampedFrame bytes.
func (j *Journal) Write(stamped []byte) (int, error) {
	frame, ts, ok := FromStamped(stamped)
	if !ok {
		return 0, ErrInvalidFrame
	}
	if err := j.Append(frame, ts); err != nil {
		return 0, err
	}
	return len(stamped), nil
}

// Close closes the journal and the underlying writer if it is closable.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}

// JournalReader replays entries from a journal stream in recorded
// order. It implements FrameReader: gaps between consecutive entries
// larger than the jitter tolerance are reported as loss, matching the
// Buffer contract.
type JournalReader struct {
	dec  *msgpack.Decoder
	tail EpochMillis

	// pending holds an entry whose loss gap was reported but whose
	// frame has not been returned yet.
	pending *JournalEntry
}

// NewJournalReader creates a reader over a journal stream.
func NewJournalReader(r io.Reader) *JournalReader {
	return &JournalReader{dec: msgpack.NewDecoder(r)}
}

// Frame returns the next recorded frame, or a loss duration when the
// recording has a timestamp gap. Returns io.EOF at end of stream.
func (r *JournalReader) Frame() (opus.Frame, time.Duration, error) {
	entry := r.pending
	r.pending = nil
	if entry == nil {
		var e JournalEntry
		if err := r.dec.Decode(&e); err != nil {
			if err == io.ErrUnexpectedEOF {
				err = io.EOF
			}
			return nil, 0, err
		}
		entry = &e
	}

	if loss := int64(entry.Stamp) - int64(r.tail); r.tail > 0 && loss > timestampEpsilon {
		r.tail = entry.Stamp
		r.pending = entry
		return nil, EpochMillis(loss).Duration(), nil
	}

	frame := opus.Frame(entry.Frame)
	r.tail = entry.Stamp + FromDuration(frame.Duration())
	return frame, 0, nil
}

// Entries iterates raw journal entries without loss detection.
func (r *JournalReader) Entries() func(yield func(JournalEntry, error) bool) {
	return func(yield func(JournalEntry, error) bool) {
		for {
			var e JournalEntry
			if err := r.dec.Decode(&e); err != nil {
				if err == io.EOF || err == io.ErrUnexpectedEOF {
					return
				}
				yield(JournalEntry{}, err)
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}
