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

// Package ionhash computes order-independent cryptographic fingerprints of
// decoded Ion values. A Hash accumulates digests of values and raw byte
// strings via a commutative "dot" operator, so adding two inputs in either
// order, or dotting two Hashes in either order, gives the same Sum, and two
// structs with the same fields in different orders hash identically. The
// operator is not associative: with three or more inputs the Sum depends on
// the order in which they are combined.
package ionhash
