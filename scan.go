/*
DESCRIPTION
  scan.go provides the entropy coder: DC differential and AC run-length
  Huffman encoding of zigzag data units, and the matching canonical
  decoder.

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

import (
	"github.com/pkg/errors"

	"github.com/ausocean/jpeg/bits"
)

// AC symbols with run-length meaning.
const (
	symEOB = 0x00 // All remaining AC coefficients are zero.
	symZRL = 0xf0 // Sixteen consecutive zero AC coefficients.
)

// category returns the number of significant bits of |v|; zero only for
// v == 0.
func category(v int32) int {
	if v < 0 {
		v = -v
	}
	n := 0
	for v > 0 {
		v >>= 1
		n++
	}
	return n
}

// valueBits returns the cat low bits of |v| for positive v, and their
// one's complement for negative v.
func valueBits(v int32, cat int) uint32 {
	if v < 0 {
		return uint32(^(-v)) & (1<<uint(cat) - 1)
	}
	return uint32(v) & (1<<uint(cat) - 1)
}

// writeCode emits the Huffman codeword for symbol s.
func writeCode(w *bits.Writer, t *huffmanEncTable, s byte) error {
	if t.size[s] == 0 {
		return errors.Errorf("no huffman code for symbol %#x", s)
	}
	w.WriteBits(uint32(t.code[s]), int(t.size[s]))
	return nil
}

// dcEncoder carries the DC predictor for one component across data units.
type dcEncoder struct {
	pred int16
	tab  *huffmanEncTable
}

// encode emits the Huffman-coded category of the DC differential followed
// by its value bits, and advances the predictor.
func (e *dcEncoder) encode(w *bits.Writer, dc int16) error {
	diff := int32(dc) - int32(e.pred)
	e.pred = dc

	cat := category(diff)
	if err := writeCode(w, e.tab, byte(cat)); err != nil {
		return err
	}
	if cat > 0 {
		w.WriteBits(valueBits(diff, cat), cat)
	}
	return nil
}

// encodeDU entropy codes one zigzag data unit: the DC differential, then
// the 63 AC positions as (run,category) symbols with value bits. Runs of
// sixteen zeros before a nonzero coefficient become ZRL symbols, and any
// trailing zero run collapses to a single EOB.
func encodeDU(w *bits.Writer, z *zigzagDataUnit, dc *dcEncoder, ac *huffmanEncTable) error {
	if err := dc.encode(w, z[0]); err != nil {
		return err
	}

	run := 0
	for k := 1; k < 64; k++ {
		v := int32(z[k])
		if v == 0 {
			run++
			continue
		}
		for run >= 16 {
			if err := writeCode(w, ac, symZRL); err != nil {
				return err
			}
			run -= 16
		}
		cat := category(v)
		if err := writeCode(w, ac, byte(run<<4|cat)); err != nil {
			return err
		}
		w.WriteBits(valueBits(v, cat), cat)
		run = 0
	}
	if run > 0 {
		return writeCode(w, ac, symEOB)
	}
	return nil
}

// decodeSymbol reads one Huffman symbol bit by bit, matching the
// accumulated code against the canonical range for each length. More than
// 16 bits without a match is a decode error.
func decodeSymbol(r *bits.Reader, t *huffmanDecTable) (byte, error) {
	code := int32(0)
	for l := 1; l <= 16; l++ {
		b, err := r.ReadBit()
		if err != nil {
			return 0, errors.Wrap(ErrTruncated, "scan bits")
		}
		code = code<<1 | int32(b)
		if code >= t.firstCode[l] && code <= t.maxCode[l] {
			return t.symbols[t.valIndex[l]+code-t.firstCode[l]], nil
		}
	}
	return 0, ErrHuffmanDecode
}

// receiveExtend reads cat value bits and recovers the signed value: bit
// patterns below the half range are the one's complement of a negative
// magnitude.
func receiveExtend(r *bits.Reader, cat int) (int32, error) {
	if cat == 0 {
		return 0, nil
	}
	v, err := r.ReadBits(cat)
	if err != nil {
		return 0, errors.Wrap(ErrTruncated, "value bits")
	}
	s := int32(v)
	if s < 1<<uint(cat-1) {
		s += -(1 << uint(cat)) + 1
	}
	return s, nil
}

// dcDecoder carries the running DC predictor for one component.
type dcDecoder struct {
	pred int32
	tab  *huffmanDecTable
}

// decodeDU entropy decodes one data unit into zigzag order. It terminates
// on EOB, and errors if run lengths would produce more than 63 AC
// coefficients.
func decodeDU(r *bits.Reader, dc *dcDecoder, ac *huffmanDecTable) (*zigzagDataUnit, error) {
	var z zigzagDataUnit

	s, err := decodeSymbol(r, dc.tab)
	if err != nil {
		return nil, err
	}
	cat := int(s)
	if cat > 15 {
		return nil, errors.Wrap(ErrHuffmanDecode, "DC category")
	}
	diff, err := receiveExtend(r, cat)
	if err != nil {
		return nil, err
	}
	dc.pred += diff
	z[0] = int16(dc.pred)

	k := 1
	for k < 64 {
		s, err := decodeSymbol(r, ac)
		if err != nil {
			return nil, err
		}
		if s == symEOB {
			break
		}
		if s == symZRL {
			k += 16
			if k > 64 {
				return nil, ErrScanOverflow
			}
			continue
		}

		run := int(s >> 4)
		cat := int(s & 0xf)
		if cat == 0 {
			return nil, errors.Wrap(ErrHuffmanDecode, "AC run/size")
		}
		k += run
		if k > 63 {
			return nil, ErrScanOverflow
		}
		v, err := receiveExtend(r, cat)
		if err != nil {
			return nil, err
		}
		z[k] = int16(v)
		k++
	}
	return &z, nil
}
