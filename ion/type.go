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

// A Type represents the type tag of a decoded Ion value.
type Type uint8

const (
	// NoType is the zero value of Type; it never appears on a decoded Value.
	NoType Type = iota

	// NullType is the type of the (unqualified) Ion null value.
	NullType

	// BoolType is the type of an Ion boolean, true or false.
	BoolType

	// IntType is the type of a signed Ion integer of arbitrary size.
	IntType

	// FloatType is the type of an Ion floating-point value, always decoded
	// to 64 bits regardless of its 4- or 8-byte binary representation.
	FloatType

	// DecimalType is the type of an arbitrary-precision Ion decimal value.
	DecimalType

	// TimestampType is the type of an Ion timestamp.
	TimestampType

	// SymbolType is the type of an Ion symbol, resolved from a symbol ID to
	// text via the decoder's current SymbolContext.
	SymbolType

	// StringType is the type of a non-symbol Unicode string, represented directly.
	StringType

	// ClobType is the type of a character large object. Like a BlobType, it
	// stores an arbitrary sequence of bytes; it is distinguished from Blob
	// only by tag.
	ClobType

	// BlobType is the type of a binary large object: a sequence of arbitrary bytes.
	BlobType

	// ListType is the type of a list, recursively containing zero or more Ion values.
	ListType

	// SexpType is the type of an s-expression. Like a ListType, it contains a
	// sequence of zero or more Ion values, distinguished from List only by tag.
	SexpType

	// StructType is the type of a structure, recursively containing a
	// sequence of named (field, value) pairs. Field order is preserved and
	// duplicate field names are permitted.
	StructType
)

// String implements fmt.Stringer for Type.
func (t Type) String() string {
	switch t {
	case NoType:
		return "<no type>"
	case NullType:
		return "null"
	case BoolType:
		return "bool"
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case DecimalType:
		return "decimal"
	case TimestampType:
		return "timestamp"
	case StringType:
		return "string"
	case SymbolType:
		return "symbol"
	case BlobType:
		return "blob"
	case ClobType:
		return "clob"
	case StructType:
		return "struct"
	case ListType:
		return "list"
	case SexpType:
		return "sexp"
	default:
		return fmt.Sprintf("<unknown type %v>", uint8(t))
	}
}

// IsScalar determines if the type is a scalar type.
func IsScalar(t Type) bool {
	return NullType <= t && t <= BlobType
}

// IsContainer determines if the type is a container type.
func IsContainer(t Type) bool {
	return ListType <= t && t <= StructType
}
