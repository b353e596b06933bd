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
	"math"
	"math/big"
	"unicode/utf8"
)

// A Decoder reads a sequence of top-level Ion values from a binary stream.
// A Decoder is not safe for concurrent use; it is a single-threaded,
// non-reentrant, sequential consumer of its underlying byte source.
type Decoder struct {
	b   *byteReader
	cfg decoderConfig
	ctx *SymbolContext
}

// NewDecoder creates a Decoder reading binary Ion from r.
func NewDecoder(r io.Reader, opts ...DecoderOption) *Decoder {
	cfg := newDecoderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Decoder{
		b:   newByteReader(r),
		cfg: cfg,
		ctx: defaultSymbolContext(),
	}
}

// Next decodes and returns the next top-level value, along with the symbol
// context in effect when it was produced. Binary version markers and local
// symbol tables are absorbed transparently; they never surface as a
// returned Value. Next returns io.EOF once the stream is exhausted between
// top-level values.
func (d *Decoder) Next() (Value, SymbolContext, error) {
	for {
		_, ok, err := d.b.peekByte()
		if err != nil {
			return Value{}, *d.ctx, err
		}
		if !ok {
			return Value{}, *d.ctx, io.EOF
		}

		v, absorbed, err := d.readTaggedValue(0, true)
		if err != nil {
			return Value{}, *d.ctx, err
		}
		if absorbed {
			continue
		}
		return v, *d.ctx, nil
	}
}

// readTaggedValue reads one value starting at the current position,
// including any annotation wrapper and the special case of a binary
// version marker. absorbed is true when the tag introduced a BVM or a
// local symbol table - state was updated but no value is returned, and the
// caller should read again for the next real value.
func (d *Decoder) readTaggedValue(depth int, topLevel bool) (Value, bool, error) {
	if depth > d.cfg.maxDepth {
		return Value{}, false, &DepthLimitExceededError{d.cfg.maxDepth}
	}

	tagOffset := d.b.offset()
	tag, err := d.b.readByte()
	if err != nil {
		return Value{}, false, err
	}

	hi, lo := parseTag(tag)

	if hi == 0xE {
		switch lo {
		case lengthCodeNull:
			return Value{}, false, &NullAnnotationFoundError{tagOffset}
		case 0:
			if !topLevel {
				return Value{}, false, &SyntaxError{Msg: "binary version marker cannot appear inside a container", Offset: tagOffset}
			}
			if err := d.readBVMBody(tagOffset); err != nil {
				return Value{}, false, err
			}
			return Value{}, true, nil
		default:
			return d.readAnnotationWrapper(lo, tagOffset, depth, topLevel)
		}
	}

	t := typeCodes[hi]
	if t == NoType {
		return Value{}, false, &InvalidTagByteError{Byte: tag, Offset: tagOffset}
	}

	v, err := d.readTypedValue(t, hi, lo, tagOffset, depth)
	return v, false, err
}

func (d *Decoder) readBVMBody(tagOffset uint64) error {
	bs, err := d.b.readN(3)
	if err != nil {
		return &BinaryVersionMarkerNotFoundError{tagOffset}
	}

	if _, _, err := validateBVM(bs[0], bs[1], bs[2], tagOffset); err != nil {
		return err
	}

	d.ctx = defaultSymbolContext()
	return nil
}

// readLength resolves a tag byte's length nibble to a concrete payload
// length, reading a trailing VarUInt if the nibble names LongLength.
func (d *Decoder) readLength(lo uint8) (length uint64, isNull bool, err error) {
	hdr, err := decodeHeader(NoType, lo, d.b.offset())
	if err != nil {
		return 0, false, err
	}

	switch hdr.Kind {
	case NullValue:
		return 0, true, nil
	case LongLength:
		v, _, err := readVarUint(d.b)
		return v, false, err
	default:
		return hdr.Length, false, nil
	}
}

func (d *Decoder) readAnnotationWrapper(lo uint8, tagOffset uint64, depth int, topLevel bool) (Value, bool, error) {
	length, _, err := d.readLength(lo)
	if err != nil {
		return Value{}, false, err
	}

	end := d.b.offset() + length

	annotLen, _, err := readVarUint(d.b)
	if err != nil {
		return Value{}, false, err
	}

	idsEnd := d.b.offset() + annotLen
	var ids []uint64
	for d.b.offset() < idsEnd {
		id, _, err := readVarUint(d.b)
		if err != nil {
			return Value{}, false, err
		}
		ids = append(ids, id)
	}
	if d.b.offset() != idsEnd {
		return Value{}, false, &BadFormatLengthFoundError{tagOffset}
	}
	if len(ids) == 0 {
		return Value{}, false, &EmptyAnnotationFoundError{tagOffset}
	}

	isLST := topLevel && ids[0] == SystemSymbolSymbolTable

	wrapped, _, err := d.readTaggedValue(depth+1, false)
	if err != nil {
		return Value{}, false, err
	}

	if d.b.offset() != end {
		return Value{}, false, &BadFormatLengthFoundError{tagOffset}
	}

	if isLST {
		if wrapped.Type != StructType || wrapped.IsNull {
			return Value{}, false, &SyntaxError{Msg: "local symbol table annotation must wrap a struct", Offset: tagOffset}
		}
		newCtx, err := d.applyLocalSymbolTable(wrapped)
		if err != nil {
			return Value{}, false, err
		}
		d.ctx = newCtx
		return Value{}, true, nil
	}

	names := make([]string, len(ids))
	for i, id := range ids {
		name, err := d.ctx.Resolve(id, tagOffset)
		if err != nil {
			return Value{}, false, err
		}
		names[i] = name
	}
	wrapped.Annotations = append(names, wrapped.Annotations...)
	return wrapped, false, nil
}

func (d *Decoder) readTypedValue(t Type, hiNibble, lo uint8, tagOffset uint64, depth int) (Value, error) {
	switch t {
	case NullType:
		if lo != lengthCodeNull {
			return Value{}, &InvalidNullLengthError{Observed: lo, Offset: tagOffset}
		}
		return newNull(NullType), nil

	case BoolType:
		switch lo {
		case 0:
			return Value{Type: BoolType}, nil
		case 1:
			return Value{Type: BoolType, Bool: true}, nil
		case lengthCodeNull:
			return newNull(BoolType), nil
		default:
			return Value{}, &InvalidBoolLengthError{Observed: lo, Offset: tagOffset}
		}

	case IntType:
		return d.readInt(hiNibble, lo, tagOffset)

	case FloatType:
		return d.readFloat(lo, tagOffset)

	case DecimalType:
		return d.readDecimal(lo, tagOffset)

	case TimestampType:
		return d.readTimestamp(lo, tagOffset)

	case SymbolType:
		return d.readSymbol(lo, tagOffset)

	case StringType:
		return d.readString(lo, tagOffset)

	case ClobType, BlobType:
		return d.readLob(t, lo, tagOffset)

	case ListType, SexpType:
		return d.readSequence(t, lo, tagOffset, depth)

	case StructType:
		return d.readStruct(lo, tagOffset, depth)

	default:
		return Value{}, &InvalidTagByteError{Byte: (hiNibble << 4) | lo, Offset: tagOffset}
	}
}

func (d *Decoder) readInt(hiNibble, lo uint8, tagOffset uint64) (Value, error) {
	neg := hiNibble == 0x3

	length, isNull, err := d.readLength(lo)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return newNull(IntType), nil
	}

	if length == 0 {
		if neg {
			return Value{}, &SyntaxError{Msg: "negative zero integer is invalid", Offset: tagOffset}
		}
		return Value{Type: IntType}, nil
	}

	if length <= 8 {
		v, err := readUint(d.b, length)
		if err != nil {
			return Value{}, err
		}
		if length == 8 && v&0x8000000000000000 != 0 {
			bi := new(big.Int).SetUint64(v)
			if neg {
				bi.Neg(bi)
			}
			return Value{Type: IntType, BigInt: bi, IsBigInt: true}, nil
		}

		iv := int64(v)
		if neg {
			iv = -iv
		}
		return Value{Type: IntType, Int: iv}, nil
	}

	bi, err := readBigUint(d.b, length)
	if err != nil {
		return Value{}, err
	}
	if neg {
		bi.Neg(bi)
	}
	return Value{Type: IntType, BigInt: bi, IsBigInt: true}, nil
}

func (d *Decoder) readFloat(lo uint8, tagOffset uint64) (Value, error) {
	length, isNull, err := d.readLength(lo)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return newNull(FloatType), nil
	}

	switch length {
	case 0:
		return Value{Type: FloatType}, nil
	case 4:
		v, err := readUint(d.b, 4)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: FloatType, Float: float64(math.Float32frombits(uint32(v)))}, nil
	case 8:
		v, err := readUint(d.b, 8)
		if err != nil {
			return Value{}, err
		}
		return Value{Type: FloatType, Float: math.Float64frombits(v)}, nil
	default:
		return Value{}, &InvalidFloatLengthError{Observed: length, Offset: tagOffset}
	}
}

// readDecimalPayload reads an exponent (VarInt) followed by a
// signed-magnitude coefficient filling the rest of length bytes, the shared
// layout of a Decimal value and a Timestamp's fractional-seconds field.
func readDecimalPayload(b *byteReader, length uint64) (*Decimal, error) {
	if length == 0 {
		return NewDecimal(big.NewInt(0), 0, false), nil
	}

	exp, n, err := readVarInt(b)
	if err != nil {
		return nil, err
	}
	remaining := length - uint64(n)

	coef := big.NewInt(0)
	negZero := false
	if remaining > 0 {
		coef, negZero, err = readBigInt(b, remaining)
		if err != nil {
			return nil, err
		}
	}

	if exp > math.MaxInt32 || exp < math.MinInt32 {
		return nil, &SyntaxError{Msg: "decimal exponent out of range", Offset: b.offset()}
	}

	return NewDecimal(coef, int32(exp), negZero), nil
}

func (d *Decoder) readDecimal(lo uint8, tagOffset uint64) (Value, error) {
	length, isNull, err := d.readLength(lo)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return newNull(DecimalType), nil
	}

	payload, err := d.b.readN(length)
	if err != nil {
		return Value{}, err
	}

	dec, err := readDecimalPayload(newByteReader(bytes.NewReader(payload)), length)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: DecimalType, Decimal: dec}, nil
}

// fractionalNanoseconds converts a timestamp's fractional-seconds decimal
// to nanoseconds, rounding as needed and reporting a carry into the whole
// second when rounding overflows to 1s.
func fractionalNanoseconds(d *Decimal, tagOffset uint64) (nsec int, overflow bool, exponent uint8, err error) {
	truncated, err := d.ShiftL(9).trunc()
	if err != nil || truncated < 0 || truncated > 999999999 {
		return 0, false, 0, &SyntaxError{Msg: "invalid timestamp fraction", Offset: tagOffset}
	}

	rounded, err := d.ShiftL(9).round()
	if err != nil {
		return 0, false, 0, &SyntaxError{Msg: "invalid timestamp fraction", Offset: tagOffset}
	}

	if d.scale < 0 && rounded == 0 {
		exponent = 0
	} else {
		exponent = uint8(d.scale)
	}

	if rounded == 1000000000 {
		return 0, true, exponent, nil
	}
	return int(rounded), false, exponent, nil
}

func (d *Decoder) readTimestamp(lo uint8, tagOffset uint64) (Value, error) {
	length, isNull, err := d.readLength(lo)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return newNull(TimestampType), nil
	}
	if length == 0 {
		return Value{}, &SyntaxError{Msg: "empty timestamp", Offset: tagOffset}
	}

	payload, err := d.b.readN(length)
	if err != nil {
		return Value{}, err
	}
	sub := newByteReader(bytes.NewReader(payload))
	remaining := length

	mag, sign, n, err := readVarIntSigned(sub)
	if err != nil {
		return Value{}, err
	}
	remaining -= uint64(n)
	offset := mag * sign

	fields := []int{1, 1, 1, 0, 0, 0}
	precision := TimestampNoPrecision
	for i := 0; remaining > 0 && i < 6 && precision < TimestampPrecisionSecond; i++ {
		val, vn, err := readVarUint(sub)
		if err != nil {
			return Value{}, err
		}
		remaining -= uint64(vn)
		fields[i] = int(val)

		if i == 3 {
			if remaining == 0 {
				return Value{}, &SyntaxError{Msg: "timestamp hour cannot be present without minute", Offset: tagOffset}
			}
		} else {
			precision++
		}
	}

	nsec := 0
	overflow := false
	fractionPrecision := uint8(0)

	if remaining > 0 {
		dec, err := readDecimalPayload(sub, remaining)
		if err != nil {
			return Value{}, err
		}
		nsec, overflow, fractionPrecision, err = fractionalNanoseconds(dec, tagOffset)
		if err != nil {
			return Value{}, err
		}
		if fractionPrecision > 0 {
			precision = TimestampPrecisionNanosecond
		}
	}

	ts, err := tryCreateTimestamp(fields, nsec, overflow, offset, sign, precision, fractionPrecision)
	if err != nil {
		return Value{}, &SyntaxError{Msg: err.Error(), Offset: tagOffset}
	}

	return Value{Type: TimestampType, Timestamp: ts}, nil
}

func (d *Decoder) readSymbol(lo uint8, tagOffset uint64) (Value, error) {
	length, isNull, err := d.readLength(lo)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return newNull(SymbolType), nil
	}
	if length > 8 {
		return Value{}, &TooBigForU64Error{tagOffset}
	}

	bs, err := d.b.readN(length)
	if err != nil {
		return Value{}, err
	}

	var id uint64
	for _, c := range bs {
		id = id<<8 | uint64(c)
	}

	text, err := d.ctx.Resolve(id, tagOffset)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: SymbolType, Text: text}, nil
}

func (d *Decoder) readString(lo uint8, tagOffset uint64) (Value, error) {
	length, isNull, err := d.readLength(lo)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return newNull(StringType), nil
	}

	bs, err := d.b.readN(length)
	if err != nil {
		return Value{}, err
	}
	if !utf8.Valid(bs) {
		return Value{}, &BadFormatUtf8Error{tagOffset}
	}
	return Value{Type: StringType, Text: string(bs)}, nil
}

func (d *Decoder) readLob(t Type, lo uint8, tagOffset uint64) (Value, error) {
	length, isNull, err := d.readLength(lo)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return newNull(t), nil
	}

	bs, err := d.b.readN(length)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: t, Bytes: bs}, nil
}

func (d *Decoder) readSequence(t Type, lo uint8, tagOffset uint64, depth int) (Value, error) {
	length, isNull, err := d.readLength(lo)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return newNull(t), nil
	}

	end := d.b.offset() + length

	var elements []Value
	for d.b.offset() < end {
		v, _, err := d.readTaggedValue(depth+1, false)
		if err != nil {
			return Value{}, err
		}
		elements = append(elements, v)
	}
	if d.b.offset() != end {
		return Value{}, &BadFormatLengthFoundError{tagOffset}
	}

	return Value{Type: t, Elements: elements}, nil
}

func (d *Decoder) readStruct(lo uint8, tagOffset uint64, depth int) (Value, error) {
	var length uint64
	var isNull bool
	var err error

	if lo == 1 {
		// A length nibble of 1 flags an "ordered" struct: its length is
		// always VarUInt-encoded (never folded into the nibble) and its
		// field name IDs appear in ascending order. Field order is
		// preserved either way, so only the length encoding differs.
		length, _, err = readVarUint(d.b)
		if err != nil {
			return Value{}, err
		}
		if length == 0 {
			return Value{}, &SyntaxError{Msg: "ordered structs cannot be empty", Offset: tagOffset}
		}
	} else {
		length, isNull, err = d.readLength(lo)
		if err != nil {
			return Value{}, err
		}
		if isNull {
			return newNull(StructType), nil
		}
	}

	end := d.b.offset() + length

	var fields []StructField
	for d.b.offset() < end {
		fieldOffset := d.b.offset()
		sid, _, err := readVarUint(d.b)
		if err != nil {
			return Value{}, err
		}
		name, err := d.ctx.Resolve(sid, fieldOffset)
		if err != nil {
			return Value{}, err
		}

		v, _, err := d.readTaggedValue(depth+1, false)
		if err != nil {
			return Value{}, err
		}

		fields = append(fields, StructField{Name: name, Value: v})
	}
	if d.b.offset() != end {
		return Value{}, &BadFormatLengthFoundError{tagOffset}
	}

	return Value{Type: StructType, Fields: fields}, nil
}
