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
	"bufio"
	"io"
)

// A byteReader wraps an io.Reader, tracking how many bytes have been
// consumed so every error raised further up the stack can report an Offset.
type byteReader struct {
	in  *bufio.Reader
	pos uint64
}

// newByteReader wraps r, buffering it if it isn't already a *bufio.Reader.
func newByteReader(r io.Reader) *byteReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &byteReader{in: br}
}

// offset returns the number of bytes consumed so far.
func (b *byteReader) offset() uint64 {
	return b.pos
}

// readByte reads a single byte, returning an UnexpectedEOFError on io.EOF.
func (b *byteReader) readByte() (byte, error) {
	c, err := b.in.ReadByte()
	if err == io.EOF {
		return 0, &UnexpectedEOFError{b.pos}
	}
	if err != nil {
		return 0, &IOError{Err: err, Offset: b.pos}
	}
	b.pos++
	return c, nil
}

// peekByte reads the byte at the current position, which may be io.EOF,
// without consuming it. It is used to detect end-of-stream between values
// at the top level, where running out of input is not an error.
func (b *byteReader) peekByte() (byte, bool, error) {
	bs, err := b.in.Peek(1)
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, &IOError{Err: err, Offset: b.pos}
	}
	return bs[0], true, nil
}

// readN reads exactly n bytes, returning an UnexpectedEOFError if fewer are available.
func (b *byteReader) readN(n uint64) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}

	bs := make([]byte, n)
	actual, err := io.ReadFull(b.in, bs)
	b.pos += uint64(actual)

	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, &UnexpectedEOFError{b.pos}
	}
	if err != nil {
		return nil, &IOError{Err: err, Offset: b.pos}
	}

	return bs, nil
}

// skipN discards n bytes of input without materializing them.
func (b *byteReader) skipN(n uint64) error {
	actual, err := b.in.Discard(int(n))
	b.pos += uint64(actual)

	if err != nil && err != io.EOF {
		return &IOError{Err: err, Offset: b.pos}
	}
	return nil
}
