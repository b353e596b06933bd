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

import "math/big"

// A StructField is one (name, value) pair of a decoded Struct, in the order
// it appeared in the stream. Ion permits duplicate field names, so fields
// are kept as a slice rather than a map.
type StructField struct {
	Name  string
	Value Value
}

// A Value is a fully-decoded Ion value. It carries a single Type tag plus
// the small union of fields relevant to that type; fields irrelevant to the
// tag are left at their zero value. Every value, scalar or container, may
// carry annotations.
type Value struct {
	Type        Type
	Annotations []string

	// IsNull is set for a typed null of Type (spec's Null(type_tag)). Every
	// other field is meaningless when IsNull is true.
	IsNull bool

	Bool bool

	// Int holds an IntType value that fits in an int64. BigInt, and IsBigInt,
	// are used instead when it doesn't.
	Int      int64
	BigInt   *big.Int
	IsBigInt bool

	Float float64

	Decimal *Decimal

	Timestamp Timestamp

	// Text holds a StringType value or a resolved SymbolType value.
	Text string

	// Bytes holds a ClobType or BlobType payload.
	Bytes []byte

	// Fields holds a StructType's fields, in stream order.
	Fields []StructField

	// Elements holds a ListType's or SexpType's members, in stream order.
	Elements []Value
}

// Null reports whether v is a typed null.
func (v *Value) Null() bool {
	return v.IsNull
}

// newNull builds a typed null of t.
func newNull(t Type) Value {
	return Value{Type: t, IsNull: true}
}
