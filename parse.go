/*
DESCRIPTION
  parse.go provides the JFIF marker parser: a strict state machine over
  the segment sequence, interning of quantization and Huffman tables,
  late binding of component table references at SOS, and byte-unstuffing
  of the entropy-coded scan.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import "github.com/pkg/errors"

// parserState tracks progress through the legal marker ordering.
type parserState int

const (
	expectSOI parserState = iota
	expectTablesOrFrame
	expectTablesOrScan
	done
)

// component is one frame component with its sampling factors and, after
// SOS, resolved table references.
type component struct {
	id   byte
	h, v int
	tq   byte
	dcID byte
	acID byte

	qt *quantTable
	dc *huffmanDecTable
	ac *huffmanDecTable
}

// parser decodes the marker structure of a baseline JPEG. After a
// successful parse it owns the frame dimensions, the component list with
// resolved table references, the interned tables, and the de-stuffed scan.
type parser struct {
	data  []byte
	pos   int
	state parserState

	width  int
	height int
	comps  []*component
	quant  [4]*quantTable
	huff   [2][4]*huffmanDecTable
	scan   []byte
}

// parse runs the marker state machine to completion.
func (p *parser) parse() error {
	if err := p.expectMarker(codeSOI); err != nil {
		return err
	}
	p.state = expectTablesOrFrame

	for p.state != done {
		code, err := p.readMarker()
		if err != nil {
			return err
		}

		switch {
		case code >= codeAPP0 && code <= codeAPP15:
			_, err = p.readSegment()
			if err != nil {
				return errors.Wrap(err, "APPn")
			}

		case code == codeDQT:
			err = p.parseDQT()

		case code == codeDHT:
			err = p.parseDHT()

		case code == codeSOF0:
			if p.state != expectTablesOrFrame {
				return errors.Wrap(ErrBadMarker, "duplicate SOF0")
			}
			err = p.parseSOF0()
			if err == nil {
				p.state = expectTablesOrScan
			}

		case code == codeSOF2:
			return errors.Wrap(ErrUnsupported, "progressive DCT")

		case code == codeDRI:
			return errors.Wrap(ErrUnsupported, "restart interval")

		case code >= 0xc1 && code <= 0xcf:
			// Non-baseline frame types (extended, lossless, arithmetic).
			return errors.Wrapf(ErrUnsupported, "SOF marker %#x", code)

		case code == codeSOS:
			if p.state != expectTablesOrScan {
				return errors.Wrap(ErrBadMarker, "SOS before SOF0")
			}
			err = p.parseSOS()
			if err == nil {
				err = p.destuffScan()
			}
			if err == nil {
				p.state = done
			}

		default:
			return errors.Wrapf(ErrBadMarker, "marker %#x", code)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// expectMarker consumes the next marker, requiring it to be code.
func (p *parser) expectMarker(code byte) error {
	got, err := p.readMarker()
	if err != nil {
		return err
	}
	if got != code {
		return errors.Wrapf(ErrBadMarker, "want %#x got %#x", code, got)
	}
	return nil
}

// readMarker consumes a 0xff-prefixed marker code.
func (p *parser) readMarker() (byte, error) {
	if p.pos+2 > len(p.data) {
		return 0, errors.Wrap(ErrTruncated, "marker")
	}
	if p.data[p.pos] != 0xff {
		return 0, errors.Wrapf(ErrBadMarker, "%#x is not a marker prefix", p.data[p.pos])
	}
	code := p.data[p.pos+1]
	p.pos += 2
	return code, nil
}

// readSegment consumes a segment length and returns the body it frames.
func (p *parser) readSegment() ([]byte, error) {
	if p.pos+2 > len(p.data) {
		return nil, errors.Wrap(ErrTruncated, "segment length")
	}
	l := int(p.data[p.pos])<<8 | int(p.data[p.pos+1])
	if l < 2 {
		return nil, ErrBadLength
	}
	if p.pos+l > len(p.data) {
		return nil, errors.Wrap(ErrTruncated, "segment body")
	}
	body := p.data[p.pos+2 : p.pos+l]
	p.pos += l
	return body, nil
}

// parseDQT interns each quantization table in the segment by its id,
// undoing the wire zigzag order.
func (p *parser) parseDQT() error {
	body, err := p.readSegment()
	if err != nil {
		return errors.Wrap(err, "DQT")
	}

	for off := 0; off < len(body); {
		pq := body[off] >> 4
		tq := body[off] & 0xf
		off++
		if tq > 3 {
			return errors.Wrapf(ErrBadLength, "DQT id %d", tq)
		}

		var t quantTable
		switch pq {
		case 0:
			if off+64 > len(body) {
				return errors.Wrap(ErrBadLength, "DQT 8-bit entries")
			}
			for k, pos := range &zigzag {
				t[pos/8][pos%8] = uint16(body[off+k])
			}
			off += 64
		case 1:
			if off+128 > len(body) {
				return errors.Wrap(ErrBadLength, "DQT 16-bit entries")
			}
			for k, pos := range &zigzag {
				t[pos/8][pos%8] = uint16(body[off+2*k])<<8 | uint16(body[off+2*k+1])
			}
			off += 128
		default:
			return errors.Wrapf(ErrUnsupported, "DQT precision %d", pq)
		}
		p.quant[tq] = &t
	}
	return nil
}

// parseDHT interns each Huffman table in the segment by class and id,
// building the canonical decode form.
func (p *parser) parseDHT() error {
	body, err := p.readSegment()
	if err != nil {
		return errors.Wrap(err, "DHT")
	}

	for off := 0; off < len(body); {
		if off+17 > len(body) {
			return errors.Wrap(ErrBadLength, "DHT header")
		}
		class := body[off] >> 4
		id := body[off] & 0xf
		if class > 1 || id > 3 {
			return errors.Wrapf(ErrBadLength, "DHT class %d id %d", class, id)
		}
		off++

		var spec huffmanSpec
		total := 0
		for i := 0; i < 16; i++ {
			spec.counts[i] = body[off+i]
			total += int(spec.counts[i])
		}
		off += 16
		if off+total > len(body) {
			return errors.Wrap(ErrBadLength, "DHT symbols")
		}
		spec.symbols = append([]byte(nil), body[off:off+total]...)
		off += total

		t, err := buildDecTable(&spec)
		if err != nil {
			return err
		}
		p.huff[class][id] = t
	}
	return nil
}

// parseSOF0 reads the frame header: dimensions and the component list
// with sampling factors. Table references stay unresolved until SOS.
func (p *parser) parseSOF0() error {
	body, err := p.readSegment()
	if err != nil {
		return errors.Wrap(err, "SOF0")
	}
	if len(body) < 6 {
		return errors.Wrap(ErrBadLength, "SOF0 header")
	}

	if body[0] != 8 {
		return errors.Wrapf(ErrUnsupported, "sample precision %d", body[0])
	}
	p.height = int(body[1])<<8 | int(body[2])
	p.width = int(body[3])<<8 | int(body[4])
	if p.width == 0 || p.height == 0 {
		return errors.Wrap(ErrBadLength, "zero frame dimension")
	}

	n := int(body[5])
	if n != 1 && n != 3 {
		return errors.Wrapf(ErrUnsupported, "%d components", n)
	}
	if len(body) != 6+3*n {
		return errors.Wrap(ErrBadLength, "SOF0 components")
	}

	p.comps = make([]*component, n)
	for i := 0; i < n; i++ {
		off := 6 + 3*i
		c := &component{
			id: body[off],
			h:  int(body[off+1] >> 4),
			v:  int(body[off+1] & 0xf),
			tq: body[off+2],
		}
		if c.h < 1 || c.h > 2 || c.v < 1 || c.v > 2 {
			return errors.Wrapf(ErrUnsupported, "sampling %dx%d", c.h, c.v)
		}
		if c.tq > 3 {
			return errors.Wrapf(ErrBadLength, "SOF0 table id %d", c.tq)
		}
		p.comps[i] = c
	}
	return nil
}

// parseSOS binds each scan component to its Huffman table ids and runs
// the fixup pass resolving all table references, which may only now be
// complete since DQT and DHT are legal after SOF0.
func (p *parser) parseSOS() error {
	body, err := p.readSegment()
	if err != nil {
		return errors.Wrap(err, "SOS")
	}

	n := len(p.comps)
	if len(body) != 1+2*n+3 || int(body[0]) != n {
		return errors.Wrap(ErrBadLength, "SOS components")
	}

	for i := 0; i < n; i++ {
		id := body[1+2*i]
		sel := body[2+2*i]
		c := p.findComponent(id)
		if c == nil {
			return errors.Wrapf(ErrBadLength, "SOS component id %d", id)
		}
		c.dcID = sel >> 4
		c.acID = sel & 0xf
		if c.dcID > 3 || c.acID > 3 {
			return errors.Wrap(ErrBadLength, "SOS table selector")
		}
	}

	ss, se, ahal := body[1+2*n], body[2+2*n], body[3+2*n]
	if ss != 0 || se != 63 || ahal != 0 {
		return errors.Wrap(ErrUnsupported, "spectral selection")
	}

	// Fixup pass: every reference must resolve now.
	for _, c := range p.comps {
		if c.qt = p.quant[c.tq]; c.qt == nil {
			return errors.Wrapf(ErrMissingQuantTable, "id %d", c.tq)
		}
		if c.dc = p.huff[huffClassDC][c.dcID]; c.dc == nil {
			return errors.Wrapf(ErrMissingHuffmanTable, "DC id %d", c.dcID)
		}
		if c.ac = p.huff[huffClassAC][c.acID]; c.ac == nil {
			return errors.Wrapf(ErrMissingHuffmanTable, "AC id %d", c.acID)
		}
	}
	return nil
}

func (p *parser) findComponent(id byte) *component {
	for _, c := range p.comps {
		if c.id == id {
			return c
		}
	}
	return nil
}

// destuffScan consumes scan bytes through the byte-unstuffer until EOI,
// removing the 0x00 after each literal 0xff. Any other marker inside the
// scan is an error; baseline single-scan data has no restart markers.
func (p *parser) destuffScan() error {
	out := make([]byte, 0, len(p.data)-p.pos)
	for {
		if p.pos >= len(p.data) {
			return errors.Wrap(ErrTruncated, "scan")
		}
		b := p.data[p.pos]
		if b != 0xff {
			out = append(out, b)
			p.pos++
			continue
		}
		if p.pos+1 >= len(p.data) {
			return errors.Wrap(ErrTruncated, "scan marker")
		}
		switch nb := p.data[p.pos+1]; nb {
		case 0x00:
			out = append(out, 0xff)
			p.pos += 2
		case codeEOI:
			p.pos += 2
			p.scan = out
			return nil
		default:
			return errors.Wrapf(ErrBadMarker, "marker %#x in scan", nb)
		}
	}
}
