/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

package ion

import (
	"fmt"

	"golang.org/x/xerrors"
)

// An IOError wraps a failure to read from the underlying byte source, other
// than end of input (reported as UnexpectedEOFError). Unwrap exposes Err so
// callers can errors.Is/errors.As through to the reader's own error.
type IOError struct {
	Err    error
	Offset uint64
}

func (e *IOError) Error() string {
	return xerrors.Errorf("ion: i/o error at offset %v: %w", e.Offset, e.Err).Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// A SyntaxError is returned when the decoder encounters invalid input for
// which no more specific error type is defined.
type SyntaxError struct {
	Msg    string
	Offset uint64
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("ion: syntax error: %v (offset %v)", e.Msg, e.Offset)
}

// An UnexpectedEOFError is returned when the decoder unexpectedly runs out
// of input mid-value.
type UnexpectedEOFError struct {
	Offset uint64
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("ion: unexpected end of input (offset %v)", e.Offset)
}

// TooBigForU64Error is returned when a VarUInt would need more than 10
// payload bytes, or its accumulated value overflows 64 bits.
type TooBigForU64Error struct {
	Offset uint64
}

func (e *TooBigForU64Error) Error() string {
	return fmt.Sprintf("ion: varuint too big for u64 (offset %v)", e.Offset)
}

// VarIntTooBigForI64Error is returned when a VarInt would need more than 10
// payload bytes, or its magnitude overflows 63 bits.
type VarIntTooBigForI64Error struct {
	Offset uint64
}

func (e *VarIntTooBigForI64Error) Error() string {
	return fmt.Sprintf("ion: varint too big for i64 (offset %v)", e.Offset)
}

// CannotReadZeroBytesError is returned when readUint is asked to read a
// fixed-length integer of zero bytes. (readInt reads zero bytes as 0.)
type CannotReadZeroBytesError struct{}

func (e *CannotReadZeroBytesError) Error() string {
	return "ion: cannot read a zero-byte fixed-length integer"
}

// InvalidNullLengthError is returned when a Null-typed tag byte carries a
// length nibble other than 0xF.
type InvalidNullLengthError struct {
	Observed uint8
	Offset   uint64
}

func (e *InvalidNullLengthError) Error() string {
	return fmt.Sprintf("ion: invalid null length nibble 0x%X (offset %v)", e.Observed, e.Offset)
}

// InvalidBoolLengthError is returned when a Bool-typed tag byte's length
// nibble is not 0, 1, or 0xF.
type InvalidBoolLengthError struct {
	Observed uint8
	Offset   uint64
}

func (e *InvalidBoolLengthError) Error() string {
	return fmt.Sprintf("ion: invalid bool length nibble 0x%X (offset %v)", e.Observed, e.Offset)
}

// InvalidFloatLengthError is returned when a Float's payload length is not
// 0, 4, 8, or the null-value sentinel.
type InvalidFloatLengthError struct {
	Observed uint64
	Offset   uint64
}

func (e *InvalidFloatLengthError) Error() string {
	return fmt.Sprintf("ion: invalid float length %v (offset %v)", e.Observed, e.Offset)
}

// BadFormatLengthFoundError is returned when a declared length would
// require consuming more bytes than remain in the enclosing value.
type BadFormatLengthFoundError struct {
	Offset uint64
}

func (e *BadFormatLengthFoundError) Error() string {
	return fmt.Sprintf("ion: declared length overruns its container (offset %v)", e.Offset)
}

// BadFormatUtf8Error is returned when a String value's payload is not
// valid UTF-8.
type BadFormatUtf8Error struct {
	Offset uint64
}

func (e *BadFormatUtf8Error) Error() string {
	return fmt.Sprintf("ion: string value is not valid utf-8 (offset %v)", e.Offset)
}

// NullAnnotationFoundError is returned when an annotation wrapper's length
// nibble is the null-value sentinel.
type NullAnnotationFoundError struct {
	Offset uint64
}

func (e *NullAnnotationFoundError) Error() string {
	return fmt.Sprintf("ion: annotation wrapper cannot be null (offset %v)", e.Offset)
}

// EmptyAnnotationFoundError is returned when an annotation wrapper declares
// zero bytes of annotation IDs.
type EmptyAnnotationFoundError struct {
	Offset uint64
}

func (e *EmptyAnnotationFoundError) Error() string {
	return fmt.Sprintf("ion: annotation wrapper has no annotations (offset %v)", e.Offset)
}

// SymbolNotFoundError is returned when a symbol ID does not resolve in the
// current symbol context, either because it was never assigned or because
// it fell in the reserved range of an unresolved import.
type SymbolNotFoundError struct {
	ID     uint64
	Offset uint64
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("ion: symbol id %v not found (offset %v)", e.ID, e.Offset)
}

// BinaryVersionMarkerNotFoundError is returned when the stream does not
// begin with a recognizable binary version marker.
type BinaryVersionMarkerNotFoundError struct {
	Offset uint64
}

func (e *BinaryVersionMarkerNotFoundError) Error() string {
	return fmt.Sprintf("ion: binary version marker not found (offset %v)", e.Offset)
}

// UnsupportedBinaryVersionError is returned when the stream's binary version
// marker names a major.minor version this decoder does not understand.
type UnsupportedBinaryVersionError struct {
	Major  byte
	Minor  byte
	Offset uint64
}

func (e *UnsupportedBinaryVersionError) Error() string {
	return fmt.Sprintf("ion: unsupported binary version %v.%v (offset %v)", e.Major, e.Minor, e.Offset)
}

// InvalidTagByteError is returned when the decoder encounters a tag byte
// whose high nibble does not correspond to a defined Ion type.
type InvalidTagByteError struct {
	Byte   byte
	Offset uint64
}

func (e *InvalidTagByteError) Error() string {
	return fmt.Sprintf("ion: invalid tag byte 0x%02X (offset %v)", e.Byte, e.Offset)
}

// DepthLimitExceededError is returned when a container nests deeper than
// the decoder's configured limit, guarding against unbounded stack growth
// on adversarial input.
type DepthLimitExceededError struct {
	Limit int
}

func (e *DepthLimitExceededError) Error() string {
	return fmt.Sprintf("ion: container nesting exceeds depth limit of %v", e.Limit)
}

// UnimplementedError is reserved for variants the decoder has not (yet)
// implemented. It should never appear in a conforming build.
type UnimplementedError struct {
	What string
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("ion: unimplemented: %v", e.What)
}
