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
	"errors"
	"hash"

	"github.com/example/ion-go/ion"
)

// ErrDigestWidthMismatch is returned by AddHashedBytes when the caller
// supplies a pre-computed digest whose length doesn't match the Hash's
// configured digest function.
var ErrDigestWidthMismatch = errors.New("ionhash: hashed bytes width does not match digest width")

// A Hash accumulates an order-independent fingerprint over a sequence of
// byte strings, pre-computed digests, and Ion values. Combining two Hashes,
// or adding two inputs to the same Hash, in either order produces the same
// Sum: the internal dot operator sorts its two operands before combining
// them, rather than depending on which arrived first.
type Hash struct {
	newDigest func() hash.Hash
	buffer    []byte
}

// New creates a Hash that uses newDigest to combine inputs. newDigest is
// called once per combination, so it must be safe to call repeatedly and
// each call must return a fresh, unused hash.Hash.
func New(newDigest func() hash.Hash) *Hash {
	return &Hash{newDigest: newDigest}
}

// AddBytes folds the digest of b into the running hash.
func (h *Hash) AddBytes(b []byte) {
	h.dot(sum(h.newDigest, b))
}

// AddHashedBytes folds an already-computed digest into the running hash
// directly, skipping the hash step AddBytes performs. b must be exactly as
// wide as this Hash's digest function produces.
func (h *Hash) AddHashedBytes(b []byte) error {
	width := len(h.newDigest().Sum(nil))
	if len(b) != width {
		return ErrDigestWidthMismatch
	}
	h.dot(b)
	return nil
}

// AddValue folds the canonical hash of v into the running hash.
func (h *Hash) AddValue(v ion.Value) error {
	b, err := valueDigest(h.newDigest, v)
	if err != nil {
		return err
	}
	h.dot(b)
	return nil
}

// Dot combines other's accumulated digest into h, order-independently: h
// afterward is the same whether h.Dot(other) or other.Dot(h) was called.
// Each side's own digest still depends on the order in which it
// accumulated three or more inputs, since dot is not associative.
func (h *Hash) Dot(other *Hash) {
	h.dot(other.buffer)
}

// Sum returns the Hash's current accumulated digest. An empty Hash returns
// a nil slice.
func (h *Hash) Sum() []byte {
	if len(h.buffer) == 0 {
		return nil
	}
	out := make([]byte, len(h.buffer))
	copy(out, h.buffer)
	return out
}

// dot is the order-independent combining operator: combining with an empty
// operand is a no-op, combining into an empty accumulator just adopts the
// operand, and otherwise the two digests are ordered (smaller first, by
// lessReverseLex) before being hashed together, so the result never
// depends on which side called dot.
func (h *Hash) dot(other []byte) {
	if len(other) == 0 {
		return
	}
	if len(h.buffer) == 0 {
		h.buffer = other
		return
	}

	x, y := h.buffer, other
	if !lessReverseLex(x, y) {
		x, y = y, x
	}

	d := h.newDigest()
	d.Write(x)
	d.Write(y)
	h.buffer = d.Sum(nil)
}

// lessReverseLex orders two byte strings by comparing from their last byte
// to their first, treating each byte as a signed int8. This is the order
// Ion Hash's dot operator uses to make combination commutative: whichever
// rule is used, it only has to be a consistent total order, since dot
// always applies the same rule to the same pair of operands regardless of
// which was "self" and which was "other".
func lessReverseLex(a, b []byte) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := n - 1; i >= 0; i-- {
		ai, bi := int8(a[i]), int8(b[i])
		if ai != bi {
			return ai < bi
		}
	}
	return len(a) < len(b)
}

// Digest computes the canonical Ion Hash of v directly, without needing a
// caller-managed Hash. It's equivalent to New(newDigest).AddValue(v).Sum().
func Digest(newDigest func() hash.Hash, v ion.Value) ([]byte, error) {
	return valueDigest(newDigest, v)
}
