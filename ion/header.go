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

import "fmt"

// lengthCode is the low nibble of a value's tag byte, before any VarUInt
// long-length continuation has been read.
const (
	lengthCodeLong uint8 = 0x0E
	lengthCodeNull uint8 = 0x0F
)

// A LengthKind classifies how a ValueHeader's payload length was encoded.
type LengthKind uint8

const (
	// ShortLength means the length is the low nibble of the tag byte itself (0..13).
	ShortLength LengthKind = iota
	// LongLength means a trailing VarUInt gives the payload length.
	LongLength
	// NullValue means the low nibble was the reserved 0xF, and the value is a typed null.
	NullValue
)

// A ValueHeader is the decoded form of Ion's T-L tag byte, before the
// length has been resolved to a concrete byte count.
type ValueHeader struct {
	Type   Type
	Kind   LengthKind
	Length uint64 // valid only when Kind == ShortLength; LongLength's value is read separately
}

// typeCodes maps the high nibble of a tag byte to the Type it introduces.
// Index 14 (annotation wrapper) has no corresponding public Type; it is
// handled specially by the parser and is represented here as NoType.
var typeCodes = [16]Type{
	0x0: NullType,
	0x1: BoolType,
	0x2: IntType, // positive int
	0x3: IntType, // negative int
	0x4: FloatType,
	0x5: DecimalType,
	0x6: TimestampType,
	0x7: SymbolType,
	0x8: StringType,
	0x9: ClobType,
	0xA: BlobType,
	0xB: ListType,
	0xC: SexpType,
	0xD: StructType,
	0xE: NoType, // annotation wrapper, handled specially
	0xF: NoType, // reserved
}

// TypeCode returns the high-nibble tag code Ion binary and Ion Hash's
// canonical encoding both use to identify t. negInt selects the negative
// int code (0x3) when t is IntType.
func TypeCode(t Type, negInt bool) byte {
	switch t {
	case NullType:
		return 0x00
	case BoolType:
		return 0x10
	case IntType:
		if negInt {
			return 0x30
		}
		return 0x20
	case FloatType:
		return 0x40
	case DecimalType:
		return 0x50
	case TimestampType:
		return 0x60
	case SymbolType:
		return 0x70
	case StringType:
		return 0x80
	case ClobType:
		return 0x90
	case BlobType:
		return 0xA0
	case ListType:
		return 0xB0
	case SexpType:
		return 0xC0
	case StructType:
		return 0xD0
	default:
		panic(fmt.Sprintf("ion: no tag code for type %v", t))
	}
}

// annotationTagCode is the tag code of an annotation wrapper (T=14).
const annotationTagCode byte = 0xE0

// parseTag splits a tag byte into its type code (high nibble) and length
// nibble (low nibble).
func parseTag(b byte) (hi uint8, lo uint8) {
	return b >> 4, b & 0x0F
}

// decodeHeader interprets a tag byte as a ValueHeader for the given type.
// Bool folds its payload bit into the length nibble (0=false, 1=true,
// 15=null); callers distinguish that case by checking t == BoolType.
func decodeHeader(t Type, lengthNibble uint8, offset uint64) (ValueHeader, error) {
	switch lengthNibble {
	case lengthCodeNull:
		return ValueHeader{Type: t, Kind: NullValue}, nil
	case lengthCodeLong:
		return ValueHeader{Type: t, Kind: LongLength}, nil
	default:
		return ValueHeader{Type: t, Kind: ShortLength, Length: uint64(lengthNibble)}, nil
	}
}
