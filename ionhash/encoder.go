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
	"bytes"
	"hash"
	"math"
	"math/big"
	"sort"

	"github.com/example/ion-go/ion"
)

// annotationTQ is the TQ byte an annotated value's wrapper contributes. It
// reuses the binary format's annotation-wrapper tag code (T=14); annotation
// wrappers are never null, so Q is always 0.
const annotationTQ = 0xE0

// valueDigest computes the canonical hash of v: the single byte string a
// conforming reader arrives at regardless of which binary encoding (short
// vs. long length, ordered vs. unordered struct, local-symbol spelling)
// produced v. Scalars hash their TQ byte plus an escaped payload; containers
// and annotated values hash BEGIN_MARKER, TQ, each child's escaped digest
// wrapped in its own BEGIN_MARKER/END_MARKER pair, then END_MARKER.
func valueDigest(newDigest func() hash.Hash, v ion.Value) ([]byte, error) {
	if len(v.Annotations) > 0 {
		return annotationDigest(newDigest, v)
	}

	if v.IsNull {
		return sum(newDigest, []byte{tqByte(v)}), nil
	}

	if ion.IsContainer(v.Type) {
		return containerDigest(newDigest, v)
	}

	payload, err := scalarPayload(v)
	if err != nil {
		return nil, err
	}

	buf := append([]byte{tqByte(v)}, escape(payload)...)
	return sum(newDigest, buf), nil
}

// annotationDigest hashes an annotated value as a container whose children
// are its annotations (as Symbol values, in source order) followed by the
// value itself with its annotations stripped.
func annotationDigest(newDigest func() hash.Hash, v ion.Value) ([]byte, error) {
	buf := []byte{beginMarker, annotationTQ}

	for _, a := range v.Annotations {
		child, err := valueDigest(newDigest, ion.Value{Type: ion.SymbolType, Text: a})
		if err != nil {
			return nil, err
		}
		buf = appendChild(buf, child)
	}

	stripped := v
	stripped.Annotations = nil
	child, err := valueDigest(newDigest, stripped)
	if err != nil {
		return nil, err
	}
	buf = appendChild(buf, child)

	buf = append(buf, endMarker)
	return sum(newDigest, buf), nil
}

// containerDigest hashes a non-null List, Sexp, or Struct. List and Sexp
// children are hashed in stream order; Struct fields are sorted by the
// digest of their field name (ties broken by the digest of their value) so
// that field order never affects the result.
func containerDigest(newDigest func() hash.Hash, v ion.Value) ([]byte, error) {
	buf := []byte{beginMarker, tqByte(v)}

	if v.Type == ion.StructType {
		fields, err := sortedFieldDigests(newDigest, v.Fields)
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			buf = appendChild(buf, f.name)
			buf = appendChild(buf, f.value)
		}
	} else {
		for _, elem := range v.Elements {
			child, err := valueDigest(newDigest, elem)
			if err != nil {
				return nil, err
			}
			buf = appendChild(buf, child)
		}
	}

	buf = append(buf, endMarker)
	return sum(newDigest, buf), nil
}

type fieldDigest struct {
	name  []byte
	value []byte
}

func sortedFieldDigests(newDigest func() hash.Hash, fields []ion.StructField) ([]fieldDigest, error) {
	out := make([]fieldDigest, len(fields))
	for i, f := range fields {
		name, err := valueDigest(newDigest, ion.Value{Type: ion.SymbolType, Text: f.Name})
		if err != nil {
			return nil, err
		}
		value, err := valueDigest(newDigest, f.Value)
		if err != nil {
			return nil, err
		}
		out[i] = fieldDigest{name: name, value: value}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if c := bytes.Compare(out[i].name, out[j].name); c != 0 {
			return c < 0
		}
		return bytes.Compare(out[i].value, out[j].value) < 0
	})
	return out, nil
}

func appendChild(buf []byte, digest []byte) []byte {
	buf = append(buf, beginMarker)
	buf = append(buf, escape(digest)...)
	return append(buf, endMarker)
}

func sum(newDigest func() hash.Hash, b []byte) []byte {
	h := newDigest()
	h.Write(b)
	return h.Sum(nil)
}

// tqByte derives the type/qualifier byte for a non-annotated value. Q is
// 0xF for a typed null; for Bool, Q folds in the truth value, matching
// binary Ion's own fold-into-length-nibble treatment of booleans. IntType's
// sign is carried by the type code itself (0x2 vs 0x3), exactly as in
// binary Ion, so it needs no qualifier bit of its own.
func tqByte(v ion.Value) byte {
	if v.IsNull {
		return ion.TypeCode(v.Type, false) | 0x0F
	}

	switch v.Type {
	case ion.BoolType:
		if v.Bool {
			return ion.TypeCode(v.Type, false) | 0x01
		}
		return ion.TypeCode(v.Type, false)
	case ion.IntType:
		neg := (v.IsBigInt && v.BigInt.Sign() < 0) || (!v.IsBigInt && v.Int < 0)
		return ion.TypeCode(v.Type, neg)
	default:
		return ion.TypeCode(v.Type, false)
	}
}

// scalarPayload encodes v's content bytes the same way binary Ion does,
// omitting only the length prefix: Ion Hash needs no length field, since
// container boundaries are delimited by markers rather than byte counts.
func scalarPayload(v ion.Value) ([]byte, error) {
	switch v.Type {
	case ion.NullType, ion.BoolType:
		return nil, nil

	case ion.IntType:
		if v.IsBigInt {
			return ion.AppendBigInt(nil, new(big.Int).Abs(v.BigInt), false), nil
		}
		mag := v.Int
		if mag < 0 {
			mag = -mag
		}
		return ion.AppendUint(nil, uint64(mag)), nil

	case ion.FloatType:
		if v.Float == 0 && !math.Signbit(v.Float) {
			return nil, nil
		}
		bits := math.Float64bits(v.Float)
		return ion.AppendUint(nil, bits), nil

	case ion.DecimalType:
		coef, exp := v.Decimal.CoEx()
		payload := ion.AppendVarInt(nil, int64(exp))
		return ion.AppendBigInt(payload, coef, v.Decimal.IsNegativeZero()), nil

	case ion.TimestampType:
		return encodeTimestampPayload(v), nil

	case ion.SymbolType, ion.StringType:
		return []byte(v.Text), nil

	case ion.ClobType, ion.BlobType:
		return v.Bytes, nil

	default:
		return nil, &ion.UnimplementedError{What: "ionhash payload for " + v.Type.String()}
	}
}

// encodeTimestampPayload mirrors binary Ion's timestamp layout: a signed
// offset in minutes, then year down through whichever field the
// timestamp's precision reaches, then an optional fractional-seconds
// decimal.
func encodeTimestampPayload(v ion.Value) []byte {
	ts := v.Timestamp
	precision := ts.GetPrecision()
	dt := ts.GetDateTime()

	var payload []byte
	switch ts.GetTimezoneKind() {
	case ion.TimezoneUnspecified:
		// A negative-zero offset (-00:00) marks an unknown/local time with
		// no claimed UTC relationship; ordinary date-only precision uses
		// the same encoding since it carries no time-of-day component.
		payload = append(payload, 0xC0)
	case ion.TimezoneUTC:
		payload = ion.AppendVarInt(payload, 0)
	default:
		_, offsetSec := dt.Zone()
		payload = ion.AppendVarInt(payload, int64(offsetSec/60))
	}

	payload = ion.AppendVarUint(payload, uint64(dt.Year()))

	if precision >= ion.TimestampPrecisionMonth {
		payload = ion.AppendVarUint(payload, uint64(dt.Month()))
	}
	if precision >= ion.TimestampPrecisionDay {
		payload = ion.AppendVarUint(payload, uint64(dt.Day()))
	}
	if precision >= ion.TimestampPrecisionMinute {
		payload = ion.AppendVarUint(payload, uint64(dt.Hour()))
		payload = ion.AppendVarUint(payload, uint64(dt.Minute()))
	}
	if precision >= ion.TimestampPrecisionSecond {
		payload = ion.AppendVarUint(payload, uint64(dt.Second()))
	}
	if precision >= ion.TimestampPrecisionNanosecond {
		nsec := ts.TruncatedNanoseconds()
		fracExp := -int32(ts.GetNumberOfFractionalSeconds())
		payload = ion.AppendVarInt(payload, int64(fracExp))
		payload = ion.AppendBigInt(payload, big.NewInt(int64(nsec)), nsec == 0 && fracExp != 0)
	}

	return payload
}
