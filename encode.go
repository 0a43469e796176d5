/*
DESCRIPTION
  encode.go provides Encode, driving the forward pipeline: color
  transform and subsampling, MCU assembly, DCT, quantization, zigzag
  reordering, entropy coding and marker serialization.

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
	"github.com/pkg/errors"

	"github.com/ausocean/jpeg/bits"
)

// Encode compresses an RGB raster into a complete baseline JFIF byte
// sequence using YCbCr 4:2:2 sampling and the built-in quantization and
// Huffman tables.
func Encode(img *Image) ([]byte, error) {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil, ErrBadDimensions
	}
	if len(img.Pix) < img.Width*img.Height*3 {
		return nil, errors.Wrap(ErrBadDimensions, "pixel buffer short")
	}

	planar := rgbToYUV422(img)
	mcus := mcuify(planar)

	w := bits.NewWriter()
	dcY := dcEncoder{tab: encLumDC}
	dcCb := dcEncoder{tab: encChmDC}
	dcCr := dcEncoder{tab: encChmDC}

	for i := range mcus {
		m := &mcus[i]
		for _, du := range []struct {
			b  *dataUnit
			q  *quantTable
			dc *dcEncoder
			ac *huffmanEncTable
		}{
			{&m.y0, &luminanceQuantTable, &dcY, encLumAC},
			{&m.y1, &luminanceQuantTable, &dcY, encLumAC},
			{&m.cb, &chrominanceQuantTable, &dcCb, encChmAC},
			{&m.cr, &chrominanceQuantTable, &dcCr, encChmAC},
		} {
			z := toZigzag(quantize(fdct(du.b), du.q))
			if err := encodeDU(w, z, du.dc, du.ac); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()

	return writeFile(img.Width, img.Height, w.Bytes()), nil
}
