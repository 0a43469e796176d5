/*
DESCRIPTION
  decode.go provides Decode and the inverse pipeline glue: entropy
  decoding the scan into per-component planes via dequantization and the
  IDCT, then chroma upsampling and conversion back to RGB.

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
	"math"

	"github.com/ausocean/jpeg/bits"
)

// plane is the reconstructed sample grid for one component.
type plane struct {
	stride int
	rows   int
	pix    []byte
}

// Decode decompresses a baseline JFIF byte sequence into an RGB raster of
// the declared dimensions. Any baseline Huffman-coded image with one or
// three components and sampling factors of 1 or 2 is accepted.
func Decode(data []byte) (*Image, error) {
	p := &parser{data: data}
	if err := p.parse(); err != nil {
		return nil, err
	}

	planes, err := decodeScan(p)
	if err != nil {
		return nil, err
	}
	return assembleImage(p, planes), nil
}

// decodeScan entropy decodes the scan MCU by MCU, reconstructing each
// component plane through dequantization and the IDCT.
func decodeScan(p *parser) ([]*plane, error) {
	hMax, vMax := 1, 1
	for _, c := range p.comps {
		if c.h > hMax {
			hMax = c.h
		}
		if c.v > vMax {
			vMax = c.v
		}
	}
	mcusX := (p.width + 8*hMax - 1) / (8 * hMax)
	mcusY := (p.height + 8*vMax - 1) / (8 * vMax)

	planes := make([]*plane, len(p.comps))
	dcs := make([]dcDecoder, len(p.comps))
	for i, c := range p.comps {
		planes[i] = &plane{
			stride: mcusX * 8 * c.h,
			rows:   mcusY * 8 * c.v,
		}
		planes[i].pix = make([]byte, planes[i].stride*planes[i].rows)
		dcs[i] = dcDecoder{tab: c.dc}
	}

	r := bits.NewReader(p.scan)
	for my := 0; my < mcusY; my++ {
		for mx := 0; mx < mcusX; mx++ {
			for i, c := range p.comps {
				for by := 0; by < c.v; by++ {
					for bx := 0; bx < c.h; bx++ {
						z, err := decodeDU(r, &dcs[i], c.ac)
						if err != nil {
							return nil, err
						}
						f := dequantize(fromZigzag(z), c.qt)
						var coef dctDataUnit
						for u := 0; u < 8; u++ {
							for v := 0; v < 8; v++ {
								coef[u][v] = float64(f[u][v])
							}
						}
						placeBlock(planes[i], (mx*c.h+bx)*8, (my*c.v+by)*8, idct(&coef))
					}
				}
			}
		}
	}
	return planes, nil
}

// placeBlock writes one reconstructed block into a plane, undoing the
// level shift and clamping to the sample range.
func placeBlock(pl *plane, x0, y0 int, s *dctDataUnit) {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			v := clip(int(math.Round(s[r][c]))+128, 0, 255)
			pl.pix[(y0+r)*pl.stride+x0+c] = byte(v)
		}
	}
}

// assembleImage upsamples chroma by nearest-neighbour replication and
// converts to RGB at the declared resolution. Padding never escapes here.
func assembleImage(p *parser, planes []*plane) *Image {
	hMax, vMax := 1, 1
	for _, c := range p.comps {
		if c.h > hMax {
			hMax = c.h
		}
		if c.v > vMax {
			vMax = c.v
		}
	}

	img := &Image{
		Width:  p.width,
		Height: p.height,
		Pix:    make([]byte, p.width*p.height*3),
	}

	sample := func(i, x, y int) byte {
		c := p.comps[i]
		pl := planes[i]
		return pl.pix[(y/(vMax/c.v))*pl.stride+x/(hMax/c.h)]
	}

	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			var r, g, b byte
			if len(p.comps) == 1 {
				lum := sample(0, x, y)
				r, g, b = lum, lum, lum
			} else {
				r, g, b = yCbCrToRGB(sample(0, x, y), sample(1, x, y), sample(2, x, y))
			}
			off := (y*p.width + x) * 3
			img.Pix[off] = r
			img.Pix[off+1] = g
			img.Pix[off+2] = b
		}
	}
	return img
}
