// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cbor

import (
	"fmt"
)

// DecodeReason classifies why a decode failed
type DecodeReason int

const (
	ReasonTruncatedInput DecodeReason = iota
	ReasonMalformedHeader
	ReasonUnsupportedMajorType
	ReasonInvalidUtf8
	ReasonTrailingBytes
	ReasonIndefiniteBreakMismatch
)

func (r DecodeReason) String() string {
	switch r {
	case ReasonTruncatedInput:
		return "truncated input"
	case ReasonMalformedHeader:
		return "malformed header"
	case ReasonUnsupportedMajorType:
		return "unsupported major type"
	case ReasonInvalidUtf8:
		return "invalid UTF-8"
	case ReasonTrailingBytes:
		return "trailing bytes"
	case ReasonIndefiniteBreakMismatch:
		return "indefinite break mismatch"
	}
	return "unknown"
}

// DecodeError describes a failure to decode CBOR bytes into a Value. It
// carries the byte offset at which the problem was found and, where the
// outer structure decoded but an inner item did not, the partial value for
// diagnostics.
type DecodeError struct {
	Offset  int
	Reason  DecodeReason
	Partial Value
	detail  string
}

func (e *DecodeError) Error() string {
	if e.detail != "" {
		return fmt.Sprintf(
			"cbor: %s at offset %d: %s",
			e.Reason,
			e.Offset,
			e.detail,
		)
	}
	return fmt.Sprintf("cbor: %s at offset %d", e.Reason, e.Offset)
}

// EncodeError reports an encode-time failure. These can only arise from a
// caller passing a domain value that violates its own invariants; the value
// encoder itself is total.
type EncodeError struct {
	Message string
}

func (e *EncodeError) Error() string {
	return "cbor: " + e.Message
}

func newDecodeError(offset int, reason DecodeReason) *DecodeError {
	return &DecodeError{Offset: offset, Reason: reason}
}

func newDecodeErrorf(
	offset int,
	reason DecodeReason,
	format string,
	args ...any,
) *DecodeError {
	return &DecodeError{
		Offset: offset,
		Reason: reason,
		detail: fmt.Sprintf(format, args...),
	}
}
