package opus

/*
#cgo pkg-config: opus
#include <opus.h>
*/
import "C"
import "fmt"

// Error is a native libopus status code. The set of codes is closed: every
// negative status libopus can return maps to one of the constants below, and
// anything else renders as a generic unknown-error message.
type Error int

var _ error = Error(0)

// Native status codes.
const (
	ErrBadArg         = Error(C.OPUS_BAD_ARG)
	ErrBufferTooSmall = Error(C.OPUS_BUFFER_TOO_SMALL)
	ErrInternalError  = Error(C.OPUS_INTERNAL_ERROR)
	ErrInvalidPacket  = Error(C.OPUS_INVALID_PACKET)
	ErrUnimplemented  = Error(C.OPUS_UNIMPLEMENTED)
	ErrInvalidState   = Error(C.OPUS_INVALID_STATE)
	ErrAllocFail      = Error(C.OPUS_ALLOC_FAIL)
)

// Description returns the human-readable description for this code.
func (e Error) Description() string {
	switch e {
	case ErrBadArg:
		return "one or more invalid/out of range arguments"
	case ErrBufferTooSmall:
		return "the buffer passed is too small"
	case ErrInternalError:
		return "an internal error was detected"
	case ErrInvalidPacket:
		return "the compressed data passed is corrupted"
	case ErrUnimplemented:
		return "invalid/unsupported request number"
	case ErrInvalidState:
		return "an encoder or decoder structure is invalid or already freed"
	case ErrAllocFail:
		return "memory allocation has failed"
	}
	return "unknown opus error"
}

// Error implements the error interface.
func (e Error) Error() string {
	return fmt.Sprintf("opus: %s (code %d)", e.Description(), int(e))
}

// InitError reports a failed native encoder or decoder construction.
// It is not recoverable without reconfiguring the session.
type InitError struct {
	What string // "encoder" or "decoder"
	Code Error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("opus: create %s: %s", e.What, e.Code.Description())
}

// Unwrap returns the native status code.
func (e *InitError) Unwrap() error { return e.Code }

// EncodeError reports a negative status from the native encode call.
type EncodeError struct {
	Code Error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("opus: encode: %s", e.Code.Description())
}

// Unwrap returns the native status code.
func (e *EncodeError) Unwrap() error { return e.Code }

// DecodeError reports a negative status from the native decode call.
type DecodeError struct {
	Code Error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("opus: decode: %s", e.Code.Description())
}

// Unwrap returns the native status code.
func (e *DecodeError) Unwrap() error { return e.Code }
