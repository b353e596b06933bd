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

// bvmTagByte is the tag byte (annotation type code 14, length nibble 0)
// reserved for introducing a binary version marker. A real annotation
// wrapper can never legally carry this tag byte, since zero annotations is
// itself invalid - so the combination is unambiguous.
const bvmTagByte = 0xE0

// bvmFinalByte is the fixed last byte of every binary version marker.
const bvmFinalByte = 0xEA

// validateBVM checks the three bytes following a BVM's tag byte, returning
// the major/minor version they declare.
func validateBVM(major, minor, final byte, offset uint64) (byte, byte, error) {
	if final != bvmFinalByte {
		return 0, 0, &BinaryVersionMarkerNotFoundError{offset}
	}
	if major != 1 || minor != 0 {
		return 0, 0, &UnsupportedBinaryVersionError{Major: major, Minor: minor, Offset: offset}
	}
	return major, minor, nil
}
