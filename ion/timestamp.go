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
	"fmt"
	"time"
)

// TimestampPrecision is for tracking the precision of a timestamp.
type TimestampPrecision uint8

// Possible TimestampPrecision values.
const (
	TimestampNoPrecision TimestampPrecision = iota
	TimestampPrecisionYear
	TimestampPrecisionMonth
	TimestampPrecisionDay
	TimestampPrecisionMinute
	TimestampPrecisionSecond
	TimestampPrecisionNanosecond
)

const maxFractionalPrecision = 9

func (tp TimestampPrecision) String() string {
	switch tp {
	case TimestampNoPrecision:
		return "<no precision>"
	case TimestampPrecisionYear:
		return "Year"
	case TimestampPrecisionMonth:
		return "Month"
	case TimestampPrecisionDay:
		return "Day"
	case TimestampPrecisionMinute:
		return "Minute"
	case TimestampPrecisionSecond:
		return "Second"
	case TimestampPrecisionNanosecond:
		return "Nanosecond"
	default:
		return fmt.Sprintf("<unknown precision %v>", uint8(tp))
	}
}

// TimezoneKind tracks the type of timezone.
type TimezoneKind uint8

const (
	// TimezoneUnspecified is for timestamps without a timezone, such as dates
	// with no time component (Year/Month/Day precision). A negative zero
	// offset (-00:00) is also considered Unspecified.
	TimezoneUnspecified TimezoneKind = iota

	// TimezoneUTC is for UTC timestamps, denoted with a trailing 'Z' or a
	// positive zero offset (+00:00).
	TimezoneUTC

	// TimezoneLocal is for timestamps with a non-zero offset from UTC.
	TimezoneLocal
)

// Timestamp is a decoded Ion timestamp: a date/time value carrying its own
// precision and timezone-kind, since both affect equality and re-encoding.
type Timestamp struct {
	dateTime             time.Time
	precision            TimestampPrecision
	kind                 TimezoneKind
	numFractionalSeconds uint8
}

// NewDateTimestamp constructs a timestamp with only a date portion (no time component).
func NewDateTimestamp(dateTime time.Time, precision TimestampPrecision) Timestamp {
	numDecimalPlacesOfFractionalSeconds := uint8(0)
	if precision >= TimestampPrecisionNanosecond {
		numDecimalPlacesOfFractionalSeconds = maxFractionalPrecision
	}
	return Timestamp{dateTime, precision, TimezoneUnspecified, numDecimalPlacesOfFractionalSeconds}
}

// NewTimestamp constructs a timestamp with the given precision and timezone kind.
func NewTimestamp(dateTime time.Time, precision TimestampPrecision, kind TimezoneKind) Timestamp {
	numDecimalPlacesOfFractionalSeconds := uint8(0)

	if precision <= TimestampPrecisionDay {
		// Timestamps with Year, Month, or Day precision necessarily have TimezoneUnspecified timezone.
		kind = TimezoneUnspecified
	} else if precision >= TimestampPrecisionNanosecond {
		numDecimalPlacesOfFractionalSeconds = maxFractionalPrecision
	}
	return Timestamp{dateTime, precision, kind, numDecimalPlacesOfFractionalSeconds}
}

// NewTimestampWithFractionalSeconds constructs a timestamp with an explicit
// number of fractional-second precision digits.
func NewTimestampWithFractionalSeconds(dateTime time.Time, precision TimestampPrecision, kind TimezoneKind, fractionPrecision uint8) Timestamp {
	if fractionPrecision > maxFractionalPrecision {
		fractionPrecision = maxFractionalPrecision
	}
	if precision < TimestampPrecisionNanosecond {
		fractionPrecision = 0
	}
	return Timestamp{dateTime, precision, kind, fractionPrecision}
}

func tryCreateDateTimestamp(year, month, day int, precision TimestampPrecision) (Timestamp, error) {
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	// time.Date converts 2000-01-32 input to 2000-02-01.
	if year != date.Year() || time.Month(month) != date.Month() || day != date.Day() {
		return Timestamp{}, fmt.Errorf("ion: invalid timestamp")
	}

	return NewDateTimestamp(date, precision), nil
}

func tryCreateTimestamp(ts []int, nsecs int, overflow bool, offset, sign int64, precision TimestampPrecision, fractionPrecision uint8) (Timestamp, error) {
	date := time.Date(ts[0], time.Month(ts[1]), ts[2], ts[3], ts[4], ts[5], nsecs, time.UTC)
	// time.Date converts 2000-01-32 input to 2000-02-01.
	if ts[0] != date.Year() || time.Month(ts[1]) != date.Month() || ts[2] != date.Day() {
		return Timestamp{}, fmt.Errorf("ion: invalid timestamp")
	}

	if precision <= TimestampPrecisionDay {
		return NewDateTimestamp(date, precision), nil
	}

	if overflow {
		date = date.Add(time.Second)
	}

	if offset == 0 {
		if sign == -1 {
			// Negative zero timezone offset is Unspecified.
			return NewTimestampWithFractionalSeconds(date, precision, TimezoneUnspecified, fractionPrecision), nil
		}

		// Positive zero timezone offset is UTC.
		return NewTimestampWithFractionalSeconds(date, precision, TimezoneUTC, fractionPrecision), nil
	}

	date = date.In(time.FixedZone("fixed", int(offset)*60))

	// Non-zero offset is Local.
	return NewTimestampWithFractionalSeconds(date, precision, TimezoneLocal, fractionPrecision), nil
}

// GetDateTime returns the timestamp's date time.
func (ts Timestamp) GetDateTime() time.Time {
	return ts.dateTime
}

// GetPrecision returns the timestamp's precision.
func (ts Timestamp) GetPrecision() TimestampPrecision {
	return ts.precision
}

// GetTimezoneKind returns the kind of timezone.
func (ts Timestamp) GetTimezoneKind() TimezoneKind {
	return ts.kind
}

// GetNumberOfFractionalSeconds returns the number of precision units in the timestamp's fractional seconds.
func (ts Timestamp) GetNumberOfFractionalSeconds() uint8 {
	return ts.numFractionalSeconds
}

// Equal determines if two timestamps are equal in every component: instant,
// UTC offset, precision, and timezone kind.
func (ts Timestamp) Equal(ts1 Timestamp) bool {
	_, offset := ts.dateTime.Zone()
	_, offset1 := ts1.dateTime.Zone()

	return ts.dateTime.Equal(ts1.dateTime) &&
		offset == offset1 &&
		ts.precision == ts1.precision &&
		ts.kind == ts1.kind &&
		ts.numFractionalSeconds == ts1.numFractionalSeconds
}

// TruncatedNanoseconds returns the nanosecond value with trailing digits
// removed beyond the timestamp's fractional-second precision, e.g.
// 123456000 with fractional precision 3 truncates to 123.
func (ts Timestamp) TruncatedNanoseconds() int {
	nsecs := ts.dateTime.Nanosecond()

	for i := uint8(0); i < (maxFractionalPrecision-ts.numFractionalSeconds) && nsecs > 0; i++ {
		nsecs /= 10
	}
	return nsecs
}
