/*
DESCRIPTION
  huffman.go provides canonical Huffman table generation shared by the
  encoder and decoder, and the four default tables written by the
  serializer.

AUTHOR
  Dan Kortschak <dan@ausocean.org>
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import "github.com/pkg/errors"

// huffmanSpec is the canonical form of a Huffman table as carried in a DHT
// segment: counts[i] codewords of length i+1, and the leaf symbols in
// increasing code order.
type huffmanSpec struct {
	counts  [16]byte
	symbols []byte
}

// Huffman table classes as encoded in the high nibble of a DHT identifier.
const (
	huffClassDC = 0
	huffClassAC = 1
)

// huffmanEncTable caches a spec for encoding: the canonical codeword for
// each symbol. size[s] is zero for symbols absent from the table.
type huffmanEncTable struct {
	code [256]uint16
	size [256]uint8
}

// huffmanDecTable caches a spec for decoding with the length-indexed
// canonical match: a code of length l matches iff
// firstCode[l] <= code <= maxCode[l], and its symbol is
// symbols[valIndex[l]+code-firstCode[l]].
type huffmanDecTable struct {
	firstCode [17]int32
	maxCode   [17]int32
	valIndex  [17]int32
	symbols   []byte
}

// buildEncTable assigns the canonical codewords: counting up within each
// length in symbol order, doubling the code when the length grows.
func buildEncTable(spec *huffmanSpec) *huffmanEncTable {
	t := &huffmanEncTable{}
	code := uint16(0)
	k := 0
	for l := 1; l <= 16; l++ {
		for i := 0; i < int(spec.counts[l-1]); i++ {
			s := spec.symbols[k]
			t.code[s] = code
			t.size[s] = uint8(l)
			code++
			k++
		}
		code <<= 1
	}
	return t
}

// buildDecTable builds the range-check tables for the same canonical code
// assignment as buildEncTable. It rejects specs whose counts describe an
// overfull tree or disagree with the symbol list.
func buildDecTable(spec *huffmanSpec) (*huffmanDecTable, error) {
	total := 0
	for _, n := range spec.counts {
		total += int(n)
	}
	if total == 0 || total > 256 || total != len(spec.symbols) {
		return nil, errors.Wrap(ErrBadLength, "huffman symbol count")
	}

	t := &huffmanDecTable{symbols: spec.symbols}
	code := int32(0)
	k := int32(0)
	for l := 1; l <= 16; l++ {
		n := int32(spec.counts[l-1])
		if code+n > 1<<uint(l) {
			return nil, errors.Wrap(ErrBadLength, "overfull huffman tree")
		}
		t.firstCode[l] = code
		t.valIndex[l] = k
		t.maxCode[l] = code + n - 1 // -1 when the length is unused.
		code = (code + n) << 1
		k += n
	}
	return t, nil
}

// The four default table specs (luminance and chrominance, DC and AC).
// These are the tables every conforming baseline decoder ships.
var (
	lumDCSpec = huffmanSpec{
		counts:  [16]byte{0, 1, 5, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0},
		symbols: []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	}

	chmDCSpec = huffmanSpec{
		counts:  [16]byte{0, 3, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0},
		symbols: []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	}

	lumACSpec = huffmanSpec{
		counts: [16]byte{0, 2, 1, 3, 3, 2, 4, 3, 5, 5, 4, 4, 0, 0, 1, 125},
		symbols: []byte{
			0x01, 0x02, 0x03, 0x00, 0x04, 0x11, 0x05, 0x12,
			0x21, 0x31, 0x41, 0x06, 0x13, 0x51, 0x61, 0x07,
			0x22, 0x71, 0x14, 0x32, 0x81, 0x91, 0xa1, 0x08,
			0x23, 0x42, 0xb1, 0xc1, 0x15, 0x52, 0xd1, 0xf0,
			0x24, 0x33, 0x62, 0x72, 0x82, 0x09, 0x0a, 0x16,
			0x17, 0x18, 0x19, 0x1a, 0x25, 0x26, 0x27, 0x28,
			0x29, 0x2a, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39,
			0x3a, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49,
			0x4a, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58, 0x59,
			0x5a, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68, 0x69,
			0x6a, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78, 0x79,
			0x7a, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88, 0x89,
			0x8a, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97, 0x98,
			0x99, 0x9a, 0xa2, 0xa3, 0xa4, 0xa5, 0xa6, 0xa7,
			0xa8, 0xa9, 0xaa, 0xb2, 0xb3, 0xb4, 0xb5, 0xb6,
			0xb7, 0xb8, 0xb9, 0xba, 0xc2, 0xc3, 0xc4, 0xc5,
			0xc6, 0xc7, 0xc8, 0xc9, 0xca, 0xd2, 0xd3, 0xd4,
			0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0xda, 0xe1, 0xe2,
			0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9, 0xea,
			0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
			0xf9, 0xfa,
		},
	}

	chmACSpec = huffmanSpec{
		counts: [16]byte{0, 2, 1, 2, 4, 4, 3, 4, 7, 5, 4, 4, 0, 1, 2, 119},
		symbols: []byte{
			0x00, 0x01, 0x02, 0x03, 0x11, 0x04, 0x05, 0x21,
			0x31, 0x06, 0x12, 0x41, 0x51, 0x07, 0x61, 0x71,
			0x13, 0x22, 0x32, 0x81, 0x08, 0x14, 0x42, 0x91,
			0xa1, 0xb1, 0xc1, 0x09, 0x23, 0x33, 0x52, 0xf0,
			0x15, 0x62, 0x72, 0xd1, 0x0a, 0x16, 0x24, 0x34,
			0xe1, 0x25, 0xf1, 0x17, 0x18, 0x19, 0x1a, 0x26,
			0x27, 0x28, 0x29, 0x2a, 0x35, 0x36, 0x37, 0x38,
			0x39, 0x3a, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48,
			0x49, 0x4a, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58,
			0x59, 0x5a, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68,
			0x69, 0x6a, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78,
			0x79, 0x7a, 0x82, 0x83, 0x84, 0x85, 0x86, 0x87,
			0x88, 0x89, 0x8a, 0x92, 0x93, 0x94, 0x95, 0x96,
			0x97, 0x98, 0x99, 0x9a, 0xa2, 0xa3, 0xa4, 0xa5,
			0xa6, 0xa7, 0xa8, 0xa9, 0xaa, 0xb2, 0xb3, 0xb4,
			0xb5, 0xb6, 0xb7, 0xb8, 0xb9, 0xba, 0xc2, 0xc3,
			0xc4, 0xc5, 0xc6, 0xc7, 0xc8, 0xc9, 0xca, 0xd2,
			0xd3, 0xd4, 0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0xda,
			0xe2, 0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9,
			0xea, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
			0xf9, 0xfa,
		},
	}
)

// Cached encode tables, built once at startup and immutable thereafter.
var (
	encLumDC = buildEncTable(&lumDCSpec)
	encLumAC = buildEncTable(&lumACSpec)
	encChmDC = buildEncTable(&chmDCSpec)
	encChmAC = buildEncTable(&chmACSpec)
)
