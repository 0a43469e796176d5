/*
DESCRIPTION
  bits.go provides MSB-first bit reading and writing over in-memory
  buffers, as required by JPEG entropy-coded scan data.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides an MSB-first bit writer and reader over in-memory
// byte buffers. Bits are packed into bytes most-significant first, the
// on-wire order of JPEG Huffman codes and value bits.
package bits

import "io"

// Writer accumulates bits MSB-first into an internal buffer.
type Writer struct {
	buf []byte
	acc uint32
	n   int
}

// NewWriter returns a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteBits appends the n least-significant bits of v, most-significant
// first. n must be in [0,24].
func (w *Writer) WriteBits(v uint32, n int) {
	w.acc = w.acc<<uint(n) | v&(1<<uint(n)-1)
	w.n += n
	for w.n >= 8 {
		w.buf = append(w.buf, byte(w.acc>>uint(w.n-8)))
		w.n -= 8
		w.acc &= 1<<uint(w.n) - 1
	}
}

// Flush pads any partial final byte with 1-bits, the JPEG convention for
// completing a scan.
func (w *Writer) Flush() {
	if w.n > 0 {
		pad := 8 - w.n
		w.WriteBits(1<<uint(pad)-1, pad)
	}
}

// Bytes returns the completed bytes written so far. Bits not yet flushed
// to a byte boundary are not included.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the total number of bits written, including any bits still
// pending in a partial byte.
func (w *Writer) Len() int {
	return len(w.buf)*8 + w.n
}

// Reader consumes bits MSB-first from a byte slice.
type Reader struct {
	data []byte
	off  int
	acc  uint32
	n    int
}

// NewReader returns a new Reader reading from data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadBits reads n bits and returns them in the least-significant part of
// a uint32. For example, with source []byte{0x8f, 0xe3} (1000 1111,
// 1110 0011), consecutive reads give:
// n = 4, res = 0x8 (1000)
// n = 2, res = 0x3 (0011)
// n = 4, res = 0xf (1111)
// n = 6, res = 0x23 (0010 0011)
// It returns io.ErrUnexpectedEOF if the source is exhausted.
func (r *Reader) ReadBits(n int) (uint32, error) {
	for r.n < n {
		if r.off >= len(r.data) {
			return 0, io.ErrUnexpectedEOF
		}
		r.acc = r.acc<<8 | uint32(r.data[r.off])
		r.off++
		r.n += 8
	}

	v := r.acc >> uint(r.n-n) & (1<<uint(n) - 1)
	r.n -= n
	r.acc &= 1<<uint(r.n) - 1
	return v, nil
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (uint32, error) {
	return r.ReadBits(1)
}
