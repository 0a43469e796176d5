/*
DESCRIPTION
  writer.go provides the JFIF marker serializer: assembly of the segment
  sequence for a baseline 4:2:2 frame and byte-stuffing of the
  entropy-coded scan.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import (
	"bytes"
	"encoding/binary"
)

// fileWriter accumulates a JPEG file segment by segment.
type fileWriter struct {
	buf bytes.Buffer
}

// marker writes a bare marker with no body.
func (f *fileWriter) marker(code byte) {
	f.buf.WriteByte(0xff)
	f.buf.WriteByte(code)
}

// segment writes a data-bearing marker: the code, a big-endian length
// covering the length field and body, then the body.
func (f *fileWriter) segment(code byte, body []byte) {
	f.marker(code)
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(2+len(body)))
	f.buf.Write(l[:])
	f.buf.Write(body)
}

// app0Body returns the default JFIF application segment body.
func app0Body() []byte {
	b := make([]byte, 0, 14)
	b = append(b, jfifLabel...)
	b = append(b, jfifVerMajor, jfifVerMinor, jfifDensityUnit)
	b = append(b, byte(jfifXDensity>>8), byte(jfifXDensity))
	b = append(b, byte(jfifYDensity>>8), byte(jfifYDensity))
	b = append(b, jfifXThumb, jfifYThumb)
	return b
}

// dqtBody returns a quantization table body: the 8-bit precision and table
// id, then the 64 step sizes in zigzag order.
func dqtBody(id byte, q *quantTable) []byte {
	b := make([]byte, 65)
	b[0] = id // High nibble 0: 8-bit precision.
	for k, pos := range &zigzag {
		b[1+k] = byte(q[pos/8][pos%8])
	}
	return b
}

// sof0Body returns the baseline frame header body for the fixed 4:2:2
// component layout: full-resolution luma, half-horizontal chroma.
func sof0Body(width, height int) []byte {
	b := make([]byte, 0, 15)
	b = append(b, 8) // Sample precision.
	b = append(b, byte(height>>8), byte(height))
	b = append(b, byte(width>>8), byte(width))
	b = append(b, 3)
	b = append(b, 1, 2<<4|1, 0) // Y: H=2, V=1, luminance table.
	b = append(b, 2, 1<<4|1, 1) // Cb: H=1, V=1, chrominance table.
	b = append(b, 3, 1<<4|1, 1) // Cr: H=1, V=1, chrominance table.
	return b
}

// dhtBody returns a Huffman table body: class and id, the sixteen
// codeword-length counts, then the symbols in code order.
func dhtBody(class, id byte, spec *huffmanSpec) []byte {
	b := make([]byte, 0, 17+len(spec.symbols))
	b = append(b, class<<4|id)
	b = append(b, spec.counts[:]...)
	b = append(b, spec.symbols...)
	return b
}

// sosBody returns the scan header body binding each component to its
// Huffman tables, with the fixed baseline spectral selection.
func sosBody() []byte {
	return []byte{
		3,
		1, 0<<4 | 0, // Y: DC table 0, AC table 0.
		2, 1<<4 | 1, // Cb: DC table 1, AC table 1.
		3, 1<<4 | 1, // Cr: DC table 1, AC table 1.
		0, 63, 0, // Ss, Se, Ah/Al.
	}
}

// stuff byte-stuffs entropy-coded scan data: every 0xff is followed by a
// 0x00 so that scan bytes cannot alias a marker.
func stuff(scan []byte) []byte {
	out := make([]byte, 0, len(scan)+len(scan)/128)
	for _, b := range scan {
		out = append(out, b)
		if b == 0xff {
			out = append(out, 0x00)
		}
	}
	return out
}

// writeFile assembles the complete JPEG byte sequence around a flushed,
// unstuffed scan.
func writeFile(width, height int, scan []byte) []byte {
	var f fileWriter
	f.marker(codeSOI)
	f.segment(codeAPP0, app0Body())
	f.segment(codeDQT, dqtBody(0, &luminanceQuantTable))
	f.segment(codeDQT, dqtBody(1, &chrominanceQuantTable))
	f.segment(codeSOF0, sof0Body(width, height))
	f.segment(codeDHT, dhtBody(huffClassDC, 0, &lumDCSpec))
	f.segment(codeDHT, dhtBody(huffClassAC, 0, &lumACSpec))
	f.segment(codeDHT, dhtBody(huffClassDC, 1, &chmDCSpec))
	f.segment(codeDHT, dhtBody(huffClassAC, 1, &chmACSpec))
	f.segment(codeSOS, sosBody())
	f.buf.Write(stuff(scan))
	f.marker(codeEOI)
	return f.buf.Bytes()
}
