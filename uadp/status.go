/*
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package uadp implements the OPC UA PubSub UADP NetworkMessage
// binary codec: the encoder/decoder for the flag-gated wire format
// and the offset-buffer mechanism used to patch pre-encoded frames in
// realtime publish/subscribe paths.
package uadp

import (
	"errors"
	"fmt"
)

// Status is the codec's error-kind taxonomy, mirroring the status
// codes open62541 returns from its pubsub networkmessage codec.
type Status byte

// Status values. Good is the zero value so a freshly zeroed Status
// reads as success, matching the data model's zero-initialized
// construction convention (spec data model §3).
const (
	Good Status = iota
	BadDecodingError
	BadEncodingError
	BadNotImplemented
	BadNotSupported
	BadInternalError
	BadOutOfMemory
	BadSecurityChecksFailed
)

func (s Status) String() string {
	switch s {
	case Good:
		return "Good"
	case BadDecodingError:
		return "BadDecodingError"
	case BadEncodingError:
		return "BadEncodingError"
	case BadNotImplemented:
		return "BadNotImplemented"
	case BadNotSupported:
		return "BadNotSupported"
	case BadInternalError:
		return "BadInternalError"
	case BadOutOfMemory:
		return "BadOutOfMemory"
	case BadSecurityChecksFailed:
		return "BadSecurityChecksFailed"
	default:
		return "Unknown"
	}
}

// StatusError wraps a Status with a human-readable message, so
// callers can either type-switch on Status() or just print Error().
type StatusError struct {
	status Status
	msg    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s", e.status, e.msg)
}

// Status returns the error-kind carried by e.
func (e *StatusError) Status() Status {
	return e.status
}

// newErr builds a StatusError with a formatted message.
func newErr(status Status, format string, args ...any) *StatusError {
	return &StatusError{status: status, msg: fmt.Sprintf(format, args...)}
}

// StatusOf extracts the Status from an error produced by this
// package, returning BadInternalError for any other error and Good
// for a nil error.
func StatusOf(err error) Status {
	if err == nil {
		return Good
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.status
	}
	return BadInternalError
}
