// Package rtstream provides real-time Opus stream processing utilities.
//
// This package handles:
//   - Timestamped Opus frames (StampedFrame)
//   - Jitter buffer for out-of-order frame reordering
//   - Real-time pacing of frame readers
//   - Append-only frame journals for recording and replay
//
// The core types are:
//   - StampedFrame: Opus frame with embedded timestamp
//   - EpochMillis: Millisecond-precision timestamp
//   - Buffer: Jitter buffer for frame reordering
//   - Journal: msgpack-encoded frame recording
//
// Example usage:
//
//	// Create a jitter buffer
//	buf := rtstream.NewBuffer(2 * time.Minute)
//
//	// Write stamped frames (can arrive out of order)
//	buf.Write(stampedData)
//
//	// Read frames in order
//	frame, loss, err := buf.Frame()
//	if loss > 0 {
//	    // Handle packet loss with PLC
//	}
package rtstream
