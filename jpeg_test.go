/*
DESCRIPTION
  jpeg_test.go provides end-to-end testing of Encode and Decode, and
  testing for the frame lexer in lex.go.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

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
	"testing"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"

	"github.com/ausocean/jpeg/bits"
)

// uniformImage returns a w by h raster with every pixel set to (r,g,b).
func uniformImage(w, h int, r, g, b byte) *Image {
	img := &Image{Width: w, Height: h, Pix: make([]byte, w*h*3)}
	for i := 0; i < w*h; i++ {
		img.Pix[3*i] = r
		img.Pix[3*i+1] = g
		img.Pix[3*i+2] = b
	}
	return img
}

func maxPixDiff(a, b *Image) int {
	max := 0
	for i := range a.Pix {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < 0 {
			d = -d
		}
		if d > max {
			max = d
		}
	}
	return max
}

// A uniform gray image must survive the codec within a tight bound, and
// the file must be framed by SOI/APP0 and EOI.
func TestEncodeDecodeUniformGray(t *testing.T) {
	img := uniformImage(16, 8, 90, 90, 90)

	data, err := Encode(img)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xff, 0xd8, 0xff, 0xe0}) {
		t.Errorf("unexpected file prefix: %#v", data[:4])
	}
	if !bytes.HasSuffix(data, []byte{0xff, 0xd9}) {
		t.Errorf("unexpected file suffix: %#v", data[len(data)-2:])
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if got.Width != img.Width || got.Height != img.Height {
		t.Fatalf("unexpected dimensions: got:%dx%d want:%dx%d", got.Width, got.Height, img.Width, img.Height)
	}
	if d := maxPixDiff(img, got); d > 4 {
		t.Errorf("pixel difference too large: %d", d)
	}
}

// A color gradient with dimensions that are not multiples of the MCU size
// must round trip with bounded error and no padding visible.
func TestEncodeDecodeGradient(t *testing.T) {
	const w, h = 33, 17
	img := &Image{Width: w, Height: h, Pix: make([]byte, w*h*3)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := (y*w + x) * 3
			img.Pix[off] = byte(x * 7)
			img.Pix[off+1] = byte(y * 11)
			img.Pix[off+2] = byte(x*3 + y*5)
		}
	}

	data, err := Encode(img)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if got.Width != w || got.Height != h {
		t.Fatalf("unexpected dimensions: %dx%d", got.Width, got.Height)
	}
	if d := maxPixDiff(img, got); d > 16 {
		t.Errorf("pixel difference too large: %d", d)
	}
}

func TestEncodeBadDimensions(t *testing.T) {
	tests := []*Image{
		nil,
		{Width: 0, Height: 8, Pix: []byte{}},
		{Width: 8, Height: 0, Pix: []byte{}},
		{Width: -1, Height: 8, Pix: []byte{}},
		{Width: 8, Height: 8, Pix: make([]byte, 10)},
	}

	for i, img := range tests {
		if _, err := Encode(img); errors.Cause(err) != ErrBadDimensions {
			t.Errorf("image %d: unexpected error: %v", i, err)
		}
	}
}

// The decoder accepts a single-component baseline image even though the
// encoder never emits one.
func TestDecodeGrayscale(t *testing.T) {
	// One 8x8 data unit of uniform level 200.
	var du dataUnit
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			du[i][j] = int8(200 - 128)
		}
	}
	w := bits.NewWriter()
	enc := dcEncoder{tab: encLumDC}
	if err := encodeDU(w, toZigzag(quantize(fdct(&du), &luminanceQuantTable)), &enc, encLumAC); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Flush()

	var f fileWriter
	f.marker(codeSOI)
	f.segment(codeDQT, dqtBody(0, &luminanceQuantTable))
	f.segment(codeSOF0, []byte{8, 0, 8, 0, 8, 1, 1, 0x11, 0})
	f.segment(codeDHT, dhtBody(huffClassDC, 0, &lumDCSpec))
	f.segment(codeDHT, dhtBody(huffClassAC, 0, &lumACSpec))
	f.segment(codeSOS, []byte{1, 1, 0x00, 0, 63, 0})
	f.buf.Write(stuff(w.Bytes()))
	f.marker(codeEOI)

	got, err := Decode(f.buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if got.Width != 8 || got.Height != 8 {
		t.Fatalf("unexpected dimensions: %dx%d", got.Width, got.Height)
	}
	for i, v := range got.Pix {
		if d := int(v) - 200; d < -4 || d > 4 {
			t.Fatalf("pixel %d out of range: %d", i, v)
		}
	}
}

// The decoder accepts 4:2:0 sampling even though the encoder only emits
// 4:2:2: four luma blocks per MCU with quarter-resolution chroma.
func TestDecode420(t *testing.T) {
	// A uniform 16x16 image of (50,100,150): Y=91, Cb=161, Cr=99.
	w := bits.NewWriter()
	dcY := dcEncoder{tab: encLumDC}
	dcCb := dcEncoder{tab: encChmDC}
	dcCr := dcEncoder{tab: encChmDC}

	uniformDU := func(level int) *dataUnit {
		var du dataUnit
		for i := 0; i < 8; i++ {
			for j := 0; j < 8; j++ {
				du[i][j] = int8(level - 128)
			}
		}
		return &du
	}
	encodeBlock := func(du *dataUnit, q *quantTable, dc *dcEncoder, ac *huffmanEncTable) {
		if err := encodeDU(w, toZigzag(quantize(fdct(du), q)), dc, ac); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for i := 0; i < 4; i++ {
		encodeBlock(uniformDU(91), &luminanceQuantTable, &dcY, encLumAC)
	}
	encodeBlock(uniformDU(161), &chrominanceQuantTable, &dcCb, encChmAC)
	encodeBlock(uniformDU(99), &chrominanceQuantTable, &dcCr, encChmAC)
	w.Flush()

	var f fileWriter
	f.marker(codeSOI)
	f.segment(codeDQT, dqtBody(0, &luminanceQuantTable))
	f.segment(codeDQT, dqtBody(1, &chrominanceQuantTable))
	f.segment(codeSOF0, []byte{8, 0, 16, 0, 16, 3, 1, 0x22, 0, 2, 0x11, 1, 3, 0x11, 1})
	f.segment(codeDHT, dhtBody(huffClassDC, 0, &lumDCSpec))
	f.segment(codeDHT, dhtBody(huffClassAC, 0, &lumACSpec))
	f.segment(codeDHT, dhtBody(huffClassDC, 1, &chmDCSpec))
	f.segment(codeDHT, dhtBody(huffClassAC, 1, &chmACSpec))
	f.segment(codeSOS, sosBody())
	f.buf.Write(stuff(w.Bytes()))
	f.marker(codeEOI)

	got, err := Decode(f.buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if got.Width != 16 || got.Height != 16 {
		t.Fatalf("unexpected dimensions: %dx%d", got.Width, got.Height)
	}
	want := uniformImage(16, 16, 50, 100, 150)
	if d := maxPixDiff(want, got); d > 4 {
		t.Errorf("pixel difference too large: %d", d)
	}
}

func TestDecodeTruncated(t *testing.T) {
	img := uniformImage(16, 8, 10, 200, 60)
	data, err := Encode(img)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	if _, err := Decode(data[:len(data)-4]); errors.Cause(err) != ErrTruncated {
		t.Errorf("unexpected error: %v", err)
	}
}

var lexTests = []struct {
	name  string
	njpeg int
}{
	{name: "empty", njpeg: 0},
	{name: "single", njpeg: 1},
	{name: "pair", njpeg: 2},
	{name: "several", njpeg: 5},
}

func TestLex(t *testing.T) {
	Log = (*logging.TestLogger)(t)

	img := uniformImage(16, 8, 4, 8, 15)
	frame, err := Encode(img)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	for _, test := range lexTests {
		var stream []byte
		for i := 0; i < test.njpeg; i++ {
			stream = append(stream, frame...)
		}

		var buf chunkEncoder
		if err := Lex(&buf, bytes.NewReader(stream), 0); err != nil {
			t.Errorf("unexpected error for %q: %v", test.name, err)
		}

		got := [][]byte(buf)
		if len(got) != test.njpeg {
			t.Fatalf("unexpected frame count for %q: got:%d want:%d", test.name, len(got), test.njpeg)
		}
		for i, fr := range got {
			if !bytes.Equal(fr, frame) {
				t.Errorf("unexpected frame %d for %q", i, test.name)
			}
			if _, err := Decode(fr); err != nil {
				t.Errorf("could not decode lexed frame %d for %q: %v", i, test.name, err)
			}
		}
	}
}

func TestLexDelayed(t *testing.T) {
	Log = (*logging.TestLogger)(t)

	img := uniformImage(16, 8, 200, 100, 50)
	frame, err := Encode(img)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	var buf chunkEncoder
	if err := Lex(&buf, bytes.NewReader(bytes.Repeat(frame, 2)), time.Millisecond); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(buf) != 2 {
		t.Fatalf("unexpected frame count: %d", len(buf))
	}
}

func TestLexErrors(t *testing.T) {
	Log = (*logging.TestLogger)(t)

	img := uniformImage(16, 8, 30, 60, 90)
	frame, err := Encode(img)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}

	tests := []struct {
		name  string
		input []byte
		want  error
	}{
		{
			name:  "not a frame start",
			input: []byte{0x00, 0x01, 0x02},
			want:  ErrBadMarker,
		},
		{
			name:  "wrong first marker",
			input: []byte{0xff, 0xd9},
			want:  ErrBadMarker,
		},
		{
			name:  "truncated mid segment",
			input: frame[:10],
			want:  ErrTruncated,
		},
		{
			name:  "truncated mid scan",
			input: frame[:len(frame)-4],
			want:  ErrTruncated,
		},
		{
			name:  "trailing partial frame",
			input: append(append([]byte(nil), frame...), frame[:10]...),
			want:  ErrTruncated,
		},
	}

	for _, test := range tests {
		var buf chunkEncoder
		err := Lex(&buf, bytes.NewReader(test.input), 0)
		if errors.Cause(err) != test.want {
			t.Errorf("%s: unexpected error: got:%v want:%v", test.name, err, test.want)
		}
	}
}

type chunkEncoder [][]byte

func (e *chunkEncoder) Write(b []byte) (int, error) {
	*e = append(*e, b)
	return len(b), nil
}
