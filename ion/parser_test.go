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
	"bytes"
	"io"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cmpOpts lets cmp.Diff walk a Value tree that embeds a *big.Int: big.Int
// has no Equal method of the form cmp looks for, so without this it would
// recurse into big.Int's unexported fields and panic. Decimal and Timestamp
// need no such option since both already expose an Equal(T) bool method.
var cmpOpts = cmp.Options{
	cmp.Comparer(func(x, y *big.Int) bool {
		if x == nil || y == nil {
			return x == y
		}
		return x.Cmp(y) == 0
	}),
}

func bvm() []byte {
	return []byte{0xE0, 0x01, 0x00, 0xEA}
}

// tlv builds a tag-length-value encoding of payload under type code hi,
// always using the long-length form (nibble 0x0E plus a trailing VarUInt),
// which the decoder accepts for any length and saves hand-computing nibbles.
func tlv(hi byte, payload []byte) []byte {
	b := []byte{hi<<4 | 0x0E}
	b = AppendVarUint(b, uint64(len(payload)))
	return append(b, payload...)
}

// varUint encodes v as a standalone VarUInt.
func varUint(v uint64) []byte {
	return AppendVarUint(nil, v)
}

func decodeOne(t *testing.T, data []byte, opts ...DecoderOption) Value {
	t.Helper()
	d := NewDecoder(bytes.NewReader(data), opts...)
	v, _, err := d.Next()
	require.NoError(t, err)
	return v
}

func TestDecoderToleratesMissingLeadingBVM(t *testing.T) {
	// A stream that never declares a BVM starts in the same system-only
	// context a BVM would reset it to, so a bare value still decodes.
	v := decodeOne(t, []byte{0x0F})
	assert.Equal(t, NullType, v.Type)
}

func TestDecoderRejectsMalformedBVM(t *testing.T) {
	d := NewDecoder(bytes.NewReader([]byte{0xE0, 0x01, 0x00, 0x00}))
	_, _, err := d.Next()
	require.Error(t, err)
	var notFound *BinaryVersionMarkerNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDecoderRejectsUnsupportedBVMVersion(t *testing.T) {
	d := NewDecoder(bytes.NewReader([]byte{0xE0, 0x02, 0x00, 0xEA}))
	_, _, err := d.Next()
	require.Error(t, err)
	var unsupported *UnsupportedBinaryVersionError
	require.ErrorAs(t, err, &unsupported)
}

func TestDecoderNullValue(t *testing.T) {
	v := decodeOne(t, append(bvm(), 0x0F))
	assert.Equal(t, NullType, v.Type)
	assert.True(t, v.IsNull)
}

func TestDecoderBoolValues(t *testing.T) {
	v := decodeOne(t, append(bvm(), 0x11))
	assert.Equal(t, BoolType, v.Type)
	assert.True(t, v.Bool)

	v = decodeOne(t, append(bvm(), 0x10))
	assert.False(t, v.Bool)

	v = decodeOne(t, append(bvm(), 0x1F))
	assert.True(t, v.IsNull)
}

func TestDecoderPositiveAndNegativeInt(t *testing.T) {
	v := decodeOne(t, append(bvm(), 0x21, 0x02))
	assert.Equal(t, int64(2), v.Int)

	v = decodeOne(t, append(bvm(), 0x31, 0x02))
	assert.Equal(t, int64(-2), v.Int)
}

func TestDecoderNegativeZeroIntIsInvalid(t *testing.T) {
	d := NewDecoder(bytes.NewReader(append(bvm(), 0x30)))
	_, _, err := d.Next()
	require.Error(t, err)
	var syn *SyntaxError
	require.ErrorAs(t, err, &syn)
}

func TestDecoderStringValue(t *testing.T) {
	data := append(bvm(), 0x83)
	data = append(data, 'a', 'b', 'c')
	v := decodeOne(t, data)
	assert.Equal(t, StringType, v.Type)
	assert.Equal(t, "abc", v.Text)
}

func TestDecoderListOfInts(t *testing.T) {
	// [1, 2]
	data := append(bvm(), 0xB2, 0x21, 0x01, 0x21, 0x02)
	v := decodeOne(t, data)
	require.Equal(t, ListType, v.Type)
	require.Len(t, v.Elements, 2)
	assert.Equal(t, int64(1), v.Elements[0].Int)
	assert.Equal(t, int64(2), v.Elements[1].Int)
}

func TestDecoderAnnotatedValue(t *testing.T) {
	data := append(bvm(), lstBytes("greeting")...)
	// $10::true : annotation wrapper around a bool, annotating with the
	// local symbol declared above (system max ID 9, so the first local
	// symbol gets ID 10).
	annotated := tlv(0xE, append(append([]byte{}, varUint(1)...), append(varUint(10), 0x11)...))
	data = append(data, annotated...)

	v := decodeOne(t, data)
	require.Equal(t, []string{"greeting"}, v.Annotations)
	assert.Equal(t, BoolType, v.Type)
	assert.True(t, v.Bool)
}

func TestDecoderEmptyAnnotationWrapperIsInvalid(t *testing.T) {
	payload := append(varUint(0), 0x10)
	data := append(bvm(), tlv(0xE, payload)...)
	d := NewDecoder(bytes.NewReader(data))
	_, _, err := d.Next()
	require.Error(t, err)
	var empty *EmptyAnnotationFoundError
	require.ErrorAs(t, err, &empty)
}

func TestDecoderLocalSymbolTableIsAbsorbed(t *testing.T) {
	data := append(bvm(), lstBytes("x")...)
	data = append(data, tlv(0x7, []byte{10})...) // symbol id 10, the first local

	v := decodeOne(t, data)
	assert.Equal(t, SymbolType, v.Type)
	assert.Equal(t, "x", v.Text)
}

func TestDecoderUnresolvedSymbolFailsFast(t *testing.T) {
	data := append(bvm(), tlv(0x7, []byte{10})...)
	d := NewDecoder(bytes.NewReader(data))
	_, _, err := d.Next()
	require.Error(t, err)
	var notFound *SymbolNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDecoderStructFields(t *testing.T) {
	data := append(bvm(), lstBytes("a")...)
	// {a: 1}
	field := append(varUint(10), 0x21, 0x01)
	data = append(data, tlv(0xD, field)...)

	v := decodeOne(t, data)
	require.Equal(t, StructType, v.Type)
	require.Len(t, v.Fields, 1)
	assert.Equal(t, "a", v.Fields[0].Name)
	assert.Equal(t, int64(1), v.Fields[0].Value.Int)
}

func TestDecoderOrderedStructCannotBeEmpty(t *testing.T) {
	data := append(bvm(), 0xD1, 0x80)
	d := NewDecoder(bytes.NewReader(data))
	_, _, err := d.Next()
	require.Error(t, err)
	var syn *SyntaxError
	require.ErrorAs(t, err, &syn)
}

func TestDecoderDepthLimitExceeded(t *testing.T) {
	data := append(bvm(), 0xB1, 0xB0) // a list containing an empty list
	d := NewDecoder(bytes.NewReader(data), WithMaxDepth(0))
	_, _, err := d.Next()
	require.Error(t, err)
	var depthErr *DepthLimitExceededError
	require.ErrorAs(t, err, &depthErr)
}

func TestDecoderSequentialTopLevelValues(t *testing.T) {
	data := append(bvm(), 0x21, 0x01, 0x21, 0x02)
	d := NewDecoder(bytes.NewReader(data))

	v, _, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int)

	v, _, err = d.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Int)

	_, _, err = d.Next()
	assert.Equal(t, io.EOF, err)
}

func TestDecoderFloat64Value(t *testing.T) {
	payload := AppendUint(nil, 0x3FF0000000000000) // 1.0
	data := append(bvm(), tlv(0x4, payload)...)
	v := decodeOne(t, data)
	assert.Equal(t, FloatType, v.Type)
	assert.Equal(t, 1.0, v.Float)
}

func TestDecoderFloatZeroLength(t *testing.T) {
	v := decodeOne(t, append(bvm(), 0x40))
	assert.Equal(t, 0.0, v.Float)
}

func TestDecoderInvalidFloatLength(t *testing.T) {
	d := NewDecoder(bytes.NewReader(append(bvm(), tlv(0x4, []byte{1, 2, 3})...)))
	_, _, err := d.Next()
	require.Error(t, err)
	var invalid *InvalidFloatLengthError
	require.ErrorAs(t, err, &invalid)
}

func TestDecoderDecimalValue(t *testing.T) {
	// 1.50 -> coefficient 150, exponent -2
	payload := append(AppendVarInt(nil, -2), AppendBigInt(nil, bigInt(150), false)...)
	data := append(bvm(), tlv(0x5, payload)...)
	v := decodeOne(t, data)
	require.NotNil(t, v.Decimal)
	n, exp := v.Decimal.CoEx()
	assert.Equal(t, int64(150), n.Int64())
	assert.Equal(t, int32(-2), exp)
}

func TestDecoderIntPromotesToBigInt(t *testing.T) {
	payload := make([]byte, 9)
	payload[0] = 0x01
	data := append(bvm(), tlv(0x2, payload)...)
	v := decodeOne(t, data)
	require.True(t, v.IsBigInt)
	require.NotNil(t, v.BigInt)
}

func TestDecoderBlobAndClob(t *testing.T) {
	data := append(bvm(), tlv(0xA, []byte{1, 2, 3})...)
	v := decodeOne(t, data)
	assert.Equal(t, BlobType, v.Type)
	assert.Equal(t, []byte{1, 2, 3}, v.Bytes)

	data = append(bvm(), tlv(0x9, []byte{4, 5})...)
	v = decodeOne(t, data)
	assert.Equal(t, ClobType, v.Type)
	assert.Equal(t, []byte{4, 5}, v.Bytes)
}

func TestDecoderSexpWithTruncatedChildFails(t *testing.T) {
	data := append(bvm(), 0xC1, 0x21)
	d := NewDecoder(bytes.NewReader(data))
	_, _, err := d.Next()
	require.Error(t, err) // truncated int payload, exercising sexp container dispatch
}

func TestDecoderLocalSymbolTableAppendMode(t *testing.T) {
	data := append(bvm(), lstBytes("first")...)

	// $ion_symbol_table::{imports: $ion_symbol_table, symbols: ["second"]}
	importsSym := tlv(0x7, []byte{3}) // symbol id 3, $ion_symbol_table
	str := tlv(0x8, []byte("second"))
	list := tlv(0xB, str)
	symbolsField := append(varUint(SystemSymbolSymbols), list...)
	importsField := append(varUint(SystemSymbolImports), importsSym...)
	strct := tlv(0xD, append(importsField, symbolsField...))
	annotIDs := varUint(SystemSymbolSymbolTable)
	wrapperPayload := append(varUint(uint64(len(annotIDs))), annotIDs...)
	wrapperPayload = append(wrapperPayload, strct...)
	data = append(data, tlv(0xE, wrapperPayload)...)

	// Symbol 10 ("first") must still resolve even though a second LST
	// followed it in append mode, and symbol 11 ("second") is new.
	data = append(data, tlv(0x7, []byte{10})...)
	data = append(data, tlv(0x7, []byte{11})...)

	d := NewDecoder(bytes.NewReader(data))

	v, _, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, "first", v.Text)

	v, _, err = d.Next()
	require.NoError(t, err)
	assert.Equal(t, "second", v.Text)
}

func bigInt(v int64) *big.Int {
	return big.NewInt(v)
}

// lstBytes builds a top-level $ion_symbol_table::{symbols: [symbol]}
// annotation, declaring one new local symbol (reset mode, no imports field).
func lstBytes(symbol string) []byte {
	str := tlv(0x8, []byte(symbol))
	list := tlv(0xB, str)
	field := append(varUint(SystemSymbolSymbols), list...)
	strct := tlv(0xD, field)

	annotIDs := varUint(SystemSymbolSymbolTable)
	wrapperPayload := append(varUint(uint64(len(annotIDs))), annotIDs...)
	wrapperPayload = append(wrapperPayload, strct...)

	return tlv(0xE, wrapperPayload)
}

// TestDecoderParserIdentityAcrossEncodings exercises Testable Property 4,
// "parser identity": two different binary encodings of the same logical
// value must decode to structurally identical Value trees. Here a struct
// with one field is encoded once with its length folded into the short-form
// nibble and once with the equivalent long-form VarUInt length; cmp.Diff
// walks the full tree (including the *big.Int, Decimal, and Timestamp
// fields reflect-based equality checks on Value would otherwise have to
// special-case) rather than spot-checking a handful of top-level fields.
func TestDecoderParserIdentityAcrossEncodings(t *testing.T) {
	nameField := append(varUint(SystemSymbolName), tlv(0x8, []byte("x"))...)

	short := append([]byte{0xD0 | byte(len(nameField))}, nameField...)
	long := tlv(0xD, nameField)

	got := decodeOne(t, append(bvm(), short...))
	want := decodeOne(t, append(bvm(), long...))

	if diff := cmp.Diff(want, got, cmpOpts); diff != "" {
		t.Errorf("short- and long-form struct encodings produced different trees (-want +got):\n%s", diff)
	}
}

// TestDecoderParserIdentityForNestedNumericValues exercises the same
// property over a nested container carrying an IntType promoted to BigInt
// and a Decimal, decoded twice from byte-identical input: a
// deterministic parser must return the same tree both times.
func TestDecoderParserIdentityForNestedNumericValues(t *testing.T) {
	big64 := append([]byte{0x28}, AppendUint(nil, uint64(1)<<63)...) // promotes to BigInt
	dec := tlv(0x5, append(AppendVarInt(nil, -2), AppendBigInt(nil, bigInt(1234), false)...))
	list := tlv(0xB, append(big64, dec...))

	data := append(bvm(), list...)

	first := decodeOne(t, data)
	second := decodeOne(t, data)

	if diff := cmp.Diff(first, second, cmpOpts); diff != "" {
		t.Errorf("decoding the same bytes twice produced different trees (-first +second):\n%s", diff)
	}
}
