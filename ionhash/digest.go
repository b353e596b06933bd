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
	"crypto/sha256"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// SHA256 is the default digest function: crypto/sha256, wired up as a
// func() hash.Hash constructor for use with New and Digest.
func SHA256() hash.Hash {
	return sha256.New()
}

// Blake2b256 constructs an unkeyed 256-bit BLAKE2b digest function, an
// alternative for callers who'd rather not pull in SHA-2.
func Blake2b256() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors on a bad key length; a nil key is
		// always accepted.
		panic(err)
	}
	return h
}
