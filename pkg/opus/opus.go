// Package opus provides Opus audio codec encoding and decoding.
//
// The package binds the system libopus via CGO and adds TOC (Table of
// Contents) parsing and frame handling on top of it. The central type is
// Session, which owns a lazily created encoder/decoder pair with a fixed
// sample rate, channel count and application profile. Standalone Encoder
// and Decoder types are available when only one direction is needed.
package opus

// For go build: use pkg-config to find system libopus
// For bazel build: cdeps provides opus headers and library

/*
#cgo pkg-config: opus
#include <opus.h>
*/
import "C"

// Application selects the encoder's internal tuning.
type Application int

// Application profiles for encoder initialization.
const (
	// AppVoIP gives best quality at a given bitrate for voice signals.
	AppVoIP = Application(C.OPUS_APPLICATION_VOIP)

	// AppAudio gives best quality at a given bitrate for most non-voice signals.
	AppAudio = Application(C.OPUS_APPLICATION_AUDIO)

	// AppRestrictedLowDelay configures the minimum possible coding delay.
	AppRestrictedLowDelay = Application(C.OPUS_APPLICATION_RESTRICTED_LOWDELAY)
)

// String returns the profile name as used in configuration files.
func (a Application) String() string {
	switch a {
	case AppVoIP:
		return "voip"
	case AppAudio:
		return "audio"
	case AppRestrictedLowDelay:
		return "lowdelay"
	}
	return "invalid"
}

// ParseApplication parses a profile name ("voip", "audio", "lowdelay").
func ParseApplication(s string) (Application, bool) {
	switch s {
	case "voip":
		return AppVoIP, true
	case "audio", "":
		return AppAudio, true
	case "lowdelay":
		return AppRestrictedLowDelay, true
	}
	return 0, false
}

const (
	// MaxPacketSize is the recommended encode output capacity. A single
	// Opus packet never needs more than 3*1276 bytes.
	MaxPacketSize = 3 * 1276

	// MaxFrameSamples is the largest decodable frame in samples per
	// channel: 120ms at 48kHz.
	MaxFrameSamples = 6 * 960
)

// Version returns the libopus version string.
func Version() string {
	return C.GoString(C.opus_get_version_string())
}
