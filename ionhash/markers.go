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

// Marker bytes delimit the canonical serialization of a container's
// children so that, e.g., a list holding one two-byte string and a list
// holding two one-byte strings never collide. escapeByte is itself escaped
// when it appears literally in a payload, along with the markers.
const (
	beginMarker byte = 0x0B
	endMarker   byte = 0x0E
	escapeByte  byte = 0x0C
)

// escape returns b with every beginMarker, endMarker, and escapeByte byte
// preceded by escapeByte. It allocates only when b actually contains a byte
// that needs escaping.
func escape(b []byte) []byte {
	n := 0
	for _, c := range b {
		if needsEscape(c) {
			n++
		}
	}
	if n == 0 {
		return b
	}

	out := make([]byte, 0, len(b)+n)
	for _, c := range b {
		if needsEscape(c) {
			out = append(out, escapeByte)
		}
		out = append(out, c)
	}
	return out
}

func needsEscape(c byte) bool {
	return c == beginMarker || c == endMarker || c == escapeByte
}
