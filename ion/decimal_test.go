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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dec builds a Decimal equal to coef * 10^exp, the way a parsed binary
// coefficient/exponent pair would.
func dec(coef int64, exp int32) *Decimal {
	return NewDecimal(big.NewInt(coef), exp, false)
}

func TestDecimalCoEx(t *testing.T) {
	d := dec(123, -2)
	n, exp := d.CoEx()
	assert.Equal(t, int64(123), n.Int64())
	assert.Equal(t, int32(-2), exp)
}

func TestTrunc(t *testing.T) {
	test := func(a *Decimal, eval int64) {
		val, err := a.trunc()
		require.NoError(t, err)
		assert.Equal(t, eval, val)
	}

	test(dec(0, 0), 0)
	test(dec(1, 0), 1)
	test(dec(-1, 0), -1)
	test(dec(101, 0), 101)
	test(dec(101, 2), 10100)
	test(dec(101, -2), 1)
}

func TestRound(t *testing.T) {
	test := func(a *Decimal, eval int64) {
		val, err := a.round()
		require.NoError(t, err)
		assert.Equal(t, eval, val)
	}

	test(dec(0, 0), 0)
	test(dec(14, -1), 1)
	test(dec(15, -1), 2)
	test(dec(16, -1), 2)
	test(dec(4, -1), 0)
	test(dec(5, -1), 1)
}

func TestShiftL(t *testing.T) {
	test := func(a *Decimal, shift int, e *Decimal) {
		actual := a.ShiftL(shift)
		assert.True(t, actual.Equal(e), "expected %v, got %v", e.n, actual.n)
	}

	test(dec(0, 0), 10, dec(0, 0))
	test(dec(1, 0), 0, dec(1, 0))
	test(dec(123, 0), 1, dec(1230, 0))
	test(dec(123, 0), 100, dec(123, 100))
}

func TestCmp(t *testing.T) {
	assert.Equal(t, 0, dec(0, 0).Cmp(dec(0, 0)))
	assert.Equal(t, -1, dec(0, 0).Cmp(dec(1, 0)))
	assert.Equal(t, 1, dec(0, 0).Cmp(dec(-1, 0)))

	assert.Equal(t, 0, dec(1, 2).Cmp(dec(100, 0)))
	assert.Equal(t, 1, dec(1, 2).Cmp(dec(10, 0)))
	assert.Equal(t, -1, dec(10, 0).Cmp(dec(1, 2)))
}

func TestUpscale(t *testing.T) {
	d := dec(1, 1) // 1d1, scale -1
	up := d.upscale(4)
	n, exp := up.CoEx()
	assert.Equal(t, "100000", n.String())
	assert.Equal(t, int32(-4), exp)
}

func TestDecimalIsNegativeZero(t *testing.T) {
	pos := NewDecimal(big.NewInt(0), 0, false)
	neg := NewDecimal(big.NewInt(0), 0, true)

	assert.False(t, pos.IsNegativeZero())
	assert.True(t, neg.IsNegativeZero())
	assert.True(t, pos.Equal(neg)) // value equality ignores the sign of zero
}
