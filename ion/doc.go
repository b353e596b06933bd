/*
 * Copyright 2020 Amazon.com, Inc. or its affiliates. All Rights Reserved.
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

// Package ion decodes Ion's binary encoding into a tree of values.
//
// A stream normally opens with a binary version marker, followed by a
// sequence of top-level values; a stream without a leading marker is decoded
// against the system-only symbol context a marker would have set up. Each value may be preceded by one or more annotations,
// and containers (structs, lists, and s-expressions) recursively hold more
// values of their own. Symbols appearing in the stream - field names,
// annotations, and symbol values - are small integers resolved against a
// layered symbol context: a fixed system table, shared tables pulled from
// a Catalog, and local symbols accumulated as the stream is read.
//
// Decoder.Next walks the stream one top-level value at a time, returning a
// fully-built Value tree along with the symbol context in effect at that
// point in the stream.
package ion
