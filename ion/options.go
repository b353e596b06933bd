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

// defaultMaxDepth bounds recursive container descent so adversarial input
// can't exhaust the goroutine stack.
const defaultMaxDepth = 512

type decoderConfig struct {
	catalog  Catalog
	maxDepth int
}

func newDecoderConfig() decoderConfig {
	return decoderConfig{
		catalog:  NewCatalog(),
		maxDepth: defaultMaxDepth,
	}
}

// A DecoderOption customizes a Decoder created by NewDecoder.
type DecoderOption func(*decoderConfig)

// WithCatalog supplies the catalog a Decoder consults to resolve shared
// symbol table imports named by local symbol tables in the stream.
func WithCatalog(cat Catalog) DecoderOption {
	return func(c *decoderConfig) {
		c.catalog = cat
	}
}

// WithMaxDepth overrides the maximum container nesting depth a Decoder will
// descend into before returning a DepthLimitExceededError.
func WithMaxDepth(depth int) DecoderOption {
	return func(c *decoderConfig) {
		c.maxDepth = depth
	}
}
