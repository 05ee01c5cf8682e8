// Package resampler converts L16 PCM streams between formats.
//
// It supports:
//   - Sample rate conversion (e.g., 44100Hz to 48000Hz)
//   - Channel conversion (mono to stereo or stereo to mono)
//   - Streaming interface via io.Reader
//
// A typical use is feeding arbitrary-rate audio into an Opus session,
// which only accepts the rates 8000, 12000, 16000, 24000 and 48000 Hz:
//
//	src := pcm.Format{Rate: 44100, Channels: 2}
//	dst := pcm.L16Mono48K
//	r, err := resampler.New(audioReader, src, dst)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	io.Copy(output, r)
package resampler
