package rtstream

import (
	"io"
	"time"

	"github.com/haivivi/opuskit/pkg/opus"
)

// DelayFunc blocks for the given duration. The default is time.Sleep;
// tests substitute a fake clock.
type DelayFunc func(d time.Duration)

// RealtimeReader wraps a FrameReader and paces frame delivery to wall
// clock time. Each call to Frame blocks until the frame's playback
// position is due, so a fast producer (a file, a burst of packets)
// drains at real-time speed.
type RealtimeReader[T FrameReader] struct {
	// Source is the underlying frame reader.
	Source T

	// Delay blocks for a duration. Defaults to time.Sleep.
	Delay DelayFunc

	start   time.Time
	elapsed time.Duration
}

// NewRealtimeReader creates a paced reader over src.
func NewRealtimeReader[T FrameReader](src T) *RealtimeReader[T] {
	return &RealtimeReader[T]{Source: src}
}

func (r *RealtimeReader[T]) delay(d time.Duration) {
	if r.Delay != nil {
		r.Delay(d)
		return
	}
	time.Sleep(d)
}

// Frame returns the next frame from the source, blocking until its
// scheduled playback time. Loss durations advance the schedule the
// same way real frames do.
func (r *RealtimeReader[T]) Frame() (opus.Frame, time.Duration, error) {
	frame, loss, err := r.Source.Frame()
	if err != nil {
		return nil, 0, err
	}

	if r.start.IsZero() {
		r.start = time.Now()
	}

	if wait := r.elapsed - time.Since(r.start); wait > 0 {
		r.delay(wait)
	}

	if loss > 0 {
		r.elapsed += loss
		return nil, loss, nil
	}
	r.elapsed += frame.Duration()
	return frame, 0, nil
}

// Reset clears the pacing schedule. The next frame is delivered
// immediately and becomes the new time origin.
func (r *RealtimeReader[T]) Reset() {
	r.start = time.Time{}
	r.elapsed = 0
}

// Drain reads and discards frames until the source is exhausted,
// without pacing. It returns the total drained duration.
func Drain(src FrameReader) (time.Duration, error) {
	var total time.Duration
	for {
		frame, loss, err := src.Frame()
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if loss > 0 {
			total += loss
			continue
		}
		total += frame.Duration()
	}
}
