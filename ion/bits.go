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
	"math/big"
)

// maxVarUintLen and maxVarIntLen bound how many payload bytes a VarUInt/
// VarInt may spend before we give up rather than accumulate into a value
// that can never fit the 64-bit (63-bit for VarInt, sign bit reserved)
// result type.
const (
	maxVarUintLen = 10
	maxVarIntLen  = 10
)

// readVarUint reads a VarUInt: a big-endian base-128 value whose bytes each
// carry 7 payload bits, terminated by a byte with its high bit set. It
// returns the value and the number of bytes consumed.
func readVarUint(b *byteReader) (uint64, int, error) {
	var val uint64
	var n int

	for {
		if n >= maxVarUintLen {
			return 0, 0, &TooBigForU64Error{b.offset()}
		}

		c, err := b.readByte()
		if err != nil {
			return 0, 0, err
		}
		n++

		if val>>57 != 0 {
			// Shifting in seven more bits would overflow 64 bits.
			return 0, 0, &TooBigForU64Error{b.offset()}
		}

		val <<= 7
		val |= uint64(c & 0x7F)

		if c&0x80 != 0 {
			return val, n, nil
		}
	}
}

// readVarInt reads a VarInt: like a VarUInt, but the first byte reserves
// its second-highest bit (0x40) as a sign flag, leaving six payload bits
// in that byte instead of seven.
func readVarInt(b *byteReader) (int64, int, error) {
	c, err := b.readByte()
	if err != nil {
		return 0, 0, err
	}

	neg := c&0x40 != 0
	val := int64(c & 0x3F)
	n := 1

	if c&0x80 != 0 {
		if neg {
			return -val, n, nil
		}
		return val, n, nil
	}

	for {
		if n >= maxVarIntLen {
			return 0, 0, &VarIntTooBigForI64Error{b.offset()}
		}

		c, err := b.readByte()
		if err != nil {
			return 0, 0, err
		}
		n++

		if n == maxVarIntLen && (val>>56) != 0 {
			return 0, 0, &VarIntTooBigForI64Error{b.offset()}
		}

		val <<= 7
		val |= int64(c & 0x7F)

		if c&0x80 != 0 {
			if neg {
				return -val, n, nil
			}
			return val, n, nil
		}
	}
}

// readVarIntSigned reads a VarInt like readVarInt, but additionally reports
// the sign bit read (+1 or -1) separately from the magnitude, since some
// fields (a timestamp's UTC offset) distinguish -0 from +0.
func readVarIntSigned(b *byteReader) (mag int64, sign int64, n int, err error) {
	c, err := b.readByte()
	if err != nil {
		return 0, 0, 0, err
	}

	sign = 1
	if c&0x40 != 0 {
		sign = -1
	}
	mag = int64(c & 0x3F)
	n = 1

	if c&0x80 != 0 {
		return mag, sign, n, nil
	}

	for {
		if n >= maxVarIntLen {
			return 0, 0, 0, &VarIntTooBigForI64Error{b.offset()}
		}

		c, err := b.readByte()
		if err != nil {
			return 0, 0, 0, err
		}
		n++

		if n == maxVarIntLen && (mag>>56) != 0 {
			return 0, 0, 0, &VarIntTooBigForI64Error{b.offset()}
		}

		mag <<= 7
		mag |= int64(c & 0x7F)

		if c&0x80 != 0 {
			return mag, sign, n, nil
		}
	}
}

// readUint reads a fixed-length n-byte big-endian unsigned integer.
func readUint(b *byteReader, n uint64) (uint64, error) {
	if n == 0 {
		return 0, &CannotReadZeroBytesError{}
	}
	if n > 8 {
		return 0, &TooBigForU64Error{b.offset()}
	}

	bs, err := b.readN(n)
	if err != nil {
		return 0, err
	}

	var val uint64
	for _, c := range bs {
		val <<= 8
		val |= uint64(c)
	}
	return val, nil
}

// readInt reads a fixed-length n-byte big-endian signed-magnitude integer:
// the highest bit of the first byte is a sign flag, not part of the magnitude.
func readInt(b *byteReader, n uint64) (int64, bool, error) {
	if n == 0 {
		return 0, false, nil
	}

	bs, err := b.readN(n)
	if err != nil {
		return 0, false, err
	}

	neg := bs[0]&0x80 != 0
	bs[0] &= 0x7F

	var val int64
	for _, c := range bs {
		val <<= 8
		val |= int64(c)
	}

	isZero := val == 0
	if neg {
		val = -val
	}
	return val, isZero && neg, nil
}

// readBigUint reads a fixed-length n-byte big-endian unsigned integer into a big.Int.
func readBigUint(b *byteReader, n uint64) (*big.Int, error) {
	bs, err := b.readN(n)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(bs), nil
}

// readBigInt reads a fixed-length n-byte big-endian signed-magnitude integer
// into a big.Int, reporting separately whether the payload was a negative zero.
func readBigInt(b *byteReader, n uint64) (*big.Int, bool, error) {
	bs, err := b.readN(n)
	if err != nil {
		return nil, false, err
	}

	neg := bs[0]&0x80 != 0
	bs[0] &= 0x7F
	if bs[0] == 0 {
		bs = bs[1:]
	}

	ret := new(big.Int).SetBytes(bs)
	isNegZero := neg && ret.Sign() == 0
	if neg {
		ret.Neg(ret)
	}
	return ret, isNegZero, nil
}

// --- Encode-side helpers, shared with ionhash's canonical encoder (§4.E),
// which serializes scalar payloads using the same codings as the binary
// format (VarUInt/UInt length prefixes, signed-magnitude coefficients).

// UintLen precalculates the length, in bytes, of the given uint value.
func UintLen(v uint64) uint64 {
	length := uint64(1)
	v >>= 8

	for v > 0 {
		length++
		v >>= 8
	}

	return length
}

// AppendUint appends a big-endian unsigned integer to b. The reader is
// expected to know how many bytes the value takes up.
func AppendUint(b []byte, v uint64) []byte {
	var buf [8]byte

	i := 7
	buf[i] = byte(v & 0xFF)
	v >>= 8

	for v > 0 {
		i--
		buf[i] = byte(v & 0xFF)
		v >>= 8
	}

	return append(b, buf[i:]...)
}

// BigIntLen precalculates the length, in bytes, of the given big.Int's
// signed-magnitude encoding.
func BigIntLen(v *big.Int) uint64 {
	if v.Sign() == 0 {
		return 0
	}

	bitl := v.BitLen()
	bytel := bitl / 8

	// Either bitl is evenly divisible by 8, in which case we need another
	// byte for the sign bit, or it's not, in which case we need to round up
	// (but will then have room for the sign bit).
	return uint64(bytel) + 1
}

// AppendBigInt appends v to b in signed-magnitude form. negZero forces a
// zero-valued v to be written with its sign bit set, matching Ion decimal
// coefficients' negative-zero state.
func AppendBigInt(b []byte, v *big.Int, negZero bool) []byte {
	sign := v.Sign()
	if sign == 0 {
		if negZero {
			return append(b, 0x80)
		}
		return b
	}

	bits := v.Bytes()

	if bits[0]&0x80 == 0 {
		if sign < 0 {
			bits[0] ^= 0x80
		}
	} else {
		bit := byte(0)
		if sign < 0 {
			bit = 0x80
		}
		b = append(b, bit)
	}

	return append(b, bits...)
}

// VarUintLen precalculates the length, in bytes, of the given VarUInt value.
func VarUintLen(v uint64) uint64 {
	length := uint64(1)
	v >>= 7

	for v > 0 {
		length++
		v >>= 7
	}

	return length
}

// AppendVarUint appends a variable-length-encoded uint to b. Each byte
// stores seven bits of value; the high bit flags the last byte.
func AppendVarUint(b []byte, v uint64) []byte {
	var buf [10]byte

	i := 9
	buf[i] = 0x80 | byte(v&0x7F)
	v >>= 7

	for v > 0 {
		i--
		buf[i] = byte(v & 0x7F)
		v >>= 7
	}

	return append(b, buf[i:]...)
}

// AppendVarInt appends a variable-length-encoded int to b. Most bytes store
// seven bits of value; the high bit flags the last byte. The first byte
// additionally reserves a sign bit.
func AppendVarInt(b []byte, v int64) []byte {
	var buf [10]byte

	signbit := byte(0)
	mag := uint64(v)
	if v < 0 {
		signbit = 0x40
		mag = uint64(-v)
	}

	next := mag >> 6
	if next == 0 {
		return append(b, 0x80|signbit|byte(mag&0x3F))
	}

	i := 9
	buf[i] = 0x80 | byte(mag&0x7F)
	mag >>= 7
	next = mag >> 6

	for next > 0 {
		i--
		buf[i] = byte(mag & 0x7F)
		mag >>= 7
		next = mag >> 6
	}

	i--
	buf[i] = signbit | byte(mag&0x3F)

	return append(b, buf[i:]...)
}
