// Package pcm provides PCM (Pulse Code Modulation) audio format handling.
//
// A Format describes 16-bit signed little-endian interleaved audio and
// converts between byte counts, sample counts and durations. Chunks wrap
// raw data or generated silence behind a common WriteTo interface.
package pcm
