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
	"math"
	"math/big"
	"strconv"
)

// Decimal is an arbitrary-precision decimal value: n * 10^(-scale).
type Decimal struct {
	n         *big.Int
	scale     int32
	isNegZero bool
}

// NewDecimal creates a new decimal whose value is equal to n * 10^exp.
func NewDecimal(n *big.Int, exp int32, negZero bool) *Decimal {
	return &Decimal{
		n:         n,
		scale:     -exp,
		isNegZero: negZero,
	}
}

// CoEx returns this decimal's coefficient and exponent.
func (d *Decimal) CoEx() (*big.Int, int32) {
	return d.n, -d.scale
}

// IsNegativeZero reports whether this decimal is a negative zero, a value
// Ion's binary encoding and canonical hash serialization both distinguish
// from ordinary (positive) zero.
func (d *Decimal) IsNegativeZero() bool {
	return d.isNegZero
}

// ShiftL returns a new decimal shifted the given number of decimal places
// to the left. It's a computationally-cheap way to compute d * 10^shift,
// used to move a timestamp's fractional-second decimal into nanoseconds
// before truncating or rounding it to a fixed-point integer.
func (d *Decimal) ShiftL(shift int) *Decimal {
	scale := int64(d.scale) - int64(shift)
	if scale > math.MaxInt32 || scale < math.MinInt32 {
		panic("exponent out of bounds")
	}

	return &Decimal{
		n:     d.n,
		scale: int32(scale),
	}
}

// Cmp compares two decimals, returning -1 if d is smaller, +1 if d is
// larger, and 0 if they are equal (ignoring precision).
func (d *Decimal) Cmp(o *Decimal) int {
	dd, oo := rescale(d, o)
	return dd.n.Cmp(oo.n)
}

// Equal determines if two decimals are equal (discounting precision,
// at least for now). It has the signature go-cmp looks for, so comparing
// two decoded Values that embed a *Decimal uses this instead of reflecting
// into n/scale/isNegZero directly. Two nil decimals are equal; a nil and a
// non-nil decimal are not.
func (d *Decimal) Equal(o *Decimal) bool {
	if d == nil || o == nil {
		return d == o
	}
	return d.Cmp(o) == 0
}

func rescale(a, b *Decimal) (*Decimal, *Decimal) {
	if a.scale < b.scale {
		return a.upscale(b.scale), b
	} else if a.scale > b.scale {
		return a, b.upscale(a.scale)
	}
	return a, b
}

// upscale makes 'n' bigger by making 'scale' larger (the exponent smaller),
// since we know we can do that (1d100 -> 10d99). Makes comparisons and math easier, at the
// expense of more storage space.
func (d *Decimal) upscale(scale int32) *Decimal {
	diff := int64(scale) - int64(d.scale)
	if diff < 0 {
		panic("can't upscale to a smaller scale")
	}

	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(diff), nil)
	n := new(big.Int).Mul(d.n, pow)

	return &Decimal{
		n:     n,
		scale: scale,
	}
}

// checkToUpscale upscales a decimal to scale 0 before fixed-point
// extraction, bailing out early on values too big to ever fit an int64.
func (d *Decimal) checkToUpscale() (*Decimal, error) {
	if d.scale < 0 {
		if d.scale < -20 {
			return d, &strconv.NumError{Func: "ParseInt", Num: d.n.String(), Err: strconv.ErrRange}
		}
		return d.upscale(0), nil
	}
	return d, nil
}

// trunc attempts to truncate this decimal to an int64, dropping any fractional bits.
func (d *Decimal) trunc() (int64, error) {
	ud, err := d.checkToUpscale()
	if err != nil {
		return 0, err
	}
	str := ud.n.String()

	truncateTo := len(str) - int(ud.scale)
	if truncateTo <= 0 {
		return 0, nil
	}

	return strconv.ParseInt(str[:truncateTo], 10, 64)
}

// round attempts to truncate this decimal to an int64, rounding any fractional bits.
func (d *Decimal) round() (int64, error) {
	ud, err := d.checkToUpscale()
	if err != nil {
		return 0, err
	}

	floatValue := float64(ud.n.Int64()) / math.Pow10(int(ud.scale))
	roundedValue := math.Round(floatValue)
	return int64(roundedValue), nil
}
