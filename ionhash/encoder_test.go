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

package ionhash

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ion-go/ion"
)

func mustDigest(t *testing.T, v ion.Value) []byte {
	t.Helper()
	b, err := Digest(SHA256, v)
	require.NoError(t, err)
	return b
}

func TestDigestIsStableAcrossCalls(t *testing.T) {
	v := ion.Value{Type: ion.StringType, Text: "clk350"}
	assert.Equal(t, mustDigest(t, v), mustDigest(t, v))
}

func TestDigestDistinguishesDifferentScalars(t *testing.T) {
	a := ion.Value{Type: ion.StringType, Text: "clk350"}
	b := ion.Value{Type: ion.StringType, Text: "clk351"}
	assert.NotEqual(t, mustDigest(t, a), mustDigest(t, b))
}

func TestDigestDistinguishesNullFromTypedNull(t *testing.T) {
	plainNull := ion.Value{Type: ion.NullType, IsNull: true}
	typedNull := ion.Value{Type: ion.StringType, IsNull: true}
	assert.NotEqual(t, mustDigest(t, plainNull), mustDigest(t, typedNull))
}

func TestDigestDistinguishesBoolValues(t *testing.T) {
	f := ion.Value{Type: ion.BoolType, Bool: false}
	tr := ion.Value{Type: ion.BoolType, Bool: true}
	assert.NotEqual(t, mustDigest(t, f), mustDigest(t, tr))
}

func TestDigestDistinguishesIntSign(t *testing.T) {
	pos := ion.Value{Type: ion.IntType, Int: 5}
	neg := ion.Value{Type: ion.IntType, Int: -5}
	assert.NotEqual(t, mustDigest(t, pos), mustDigest(t, neg))
}

func TestDigestListIsOrderSensitive(t *testing.T) {
	abc := ion.Value{Type: ion.ListType, Elements: []ion.Value{
		{Type: ion.StringType, Text: "a"},
		{Type: ion.StringType, Text: "b"},
	}}
	bca := ion.Value{Type: ion.ListType, Elements: []ion.Value{
		{Type: ion.StringType, Text: "b"},
		{Type: ion.StringType, Text: "a"},
	}}
	assert.NotEqual(t, mustDigest(t, abc), mustDigest(t, bca))
}

// Struct field order must not affect the hash: {a:1,b:2} and {b:2,a:1} are
// the same Ion value.
func TestDigestStructFieldOrderIsIndependent(t *testing.T) {
	forward := ion.Value{Type: ion.StructType, Fields: []ion.StructField{
		{Name: "a", Value: ion.Value{Type: ion.IntType, Int: 1}},
		{Name: "b", Value: ion.Value{Type: ion.IntType, Int: 2}},
	}}
	backward := ion.Value{Type: ion.StructType, Fields: []ion.StructField{
		{Name: "b", Value: ion.Value{Type: ion.IntType, Int: 2}},
		{Name: "a", Value: ion.Value{Type: ion.IntType, Int: 1}},
	}}
	assert.Equal(t, mustDigest(t, forward), mustDigest(t, backward))
}

func TestDigestStructDistinguishesDifferentValues(t *testing.T) {
	a := ion.Value{Type: ion.StructType, Fields: []ion.StructField{
		{Name: "a", Value: ion.Value{Type: ion.IntType, Int: 1}},
	}}
	b := ion.Value{Type: ion.StructType, Fields: []ion.StructField{
		{Name: "a", Value: ion.Value{Type: ion.IntType, Int: 2}},
	}}
	assert.NotEqual(t, mustDigest(t, a), mustDigest(t, b))
}

func TestDigestAnnotationsAreOrderSensitiveAndAffectTheHash(t *testing.T) {
	plain := ion.Value{Type: ion.IntType, Int: 1}
	annotated := ion.Value{Type: ion.IntType, Int: 1, Annotations: []string{"x"}}
	reordered := ion.Value{Type: ion.IntType, Int: 1, Annotations: []string{"y", "x"}}
	swapped := ion.Value{Type: ion.IntType, Int: 1, Annotations: []string{"x", "y"}}

	assert.NotEqual(t, mustDigest(t, plain), mustDigest(t, annotated))
	assert.NotEqual(t, mustDigest(t, reordered), mustDigest(t, swapped))
}

func TestDigestNestedStructsAreOrderIndependentAtEveryLevel(t *testing.T) {
	inner1 := ion.Value{Type: ion.StructType, Fields: []ion.StructField{
		{Name: "x", Value: ion.Value{Type: ion.IntType, Int: 1}},
		{Name: "y", Value: ion.Value{Type: ion.IntType, Int: 2}},
	}}
	inner2 := ion.Value{Type: ion.StructType, Fields: []ion.StructField{
		{Name: "y", Value: ion.Value{Type: ion.IntType, Int: 2}},
		{Name: "x", Value: ion.Value{Type: ion.IntType, Int: 1}},
	}}

	outer1 := ion.Value{Type: ion.StructType, Fields: []ion.StructField{
		{Name: "inner", Value: inner1},
		{Name: "other", Value: ion.Value{Type: ion.BoolType, Bool: true}},
	}}
	outer2 := ion.Value{Type: ion.StructType, Fields: []ion.StructField{
		{Name: "other", Value: ion.Value{Type: ion.BoolType, Bool: true}},
		{Name: "inner", Value: inner2},
	}}

	assert.Equal(t, mustDigest(t, outer1), mustDigest(t, outer2))
}

func TestDigestDecimalNegativeZeroDiffersFromZero(t *testing.T) {
	pos := ion.Value{Type: ion.DecimalType, Decimal: ion.NewDecimal(big.NewInt(0), 0, false)}
	neg := ion.Value{Type: ion.DecimalType, Decimal: ion.NewDecimal(big.NewInt(0), 0, true)}
	assert.NotEqual(t, mustDigest(t, pos), mustDigest(t, neg))
}

func TestDigestTimestampDistinguishesDistinctInstants(t *testing.T) {
	a := ion.NewTimestamp(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), ion.TimestampPrecisionSecond, ion.TimezoneUTC)
	b := ion.NewTimestamp(time.Date(2021, 1, 1, 0, 0, 1, 0, time.UTC), ion.TimestampPrecisionSecond, ion.TimezoneUTC)

	va := ion.Value{Type: ion.TimestampType, Timestamp: a}
	vb := ion.Value{Type: ion.TimestampType, Timestamp: b}
	assert.NotEqual(t, mustDigest(t, va), mustDigest(t, vb))
}
