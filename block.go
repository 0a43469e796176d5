/*
DESCRIPTION
  block.go provides the data unit types moved through the codec pipeline
  and the assembly of planar samples into minimum coded units.

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

// dataUnit is an 8x8 block of level-shifted samples, indexed [row][col].
type dataUnit [8][8]int8

// dctDataUnit is an 8x8 block of DCT coefficients.
type dctDataUnit [8][8]float64

// quantizedDataUnit is an 8x8 block of quantized coefficients.
type quantizedDataUnit [8][8]int16

// zigzagDataUnit is a quantized block flattened into zigzag order;
// element 0 is the DC coefficient.
type zigzagDataUnit [64]int16

// mcu is one minimum coded unit of the 4:2:2 encode layout: a 16x8 pixel
// region as two luma blocks and one block each of Cb and Cr, in scan order.
type mcu struct {
	y0, y1, cb, cr dataUnit
}

// mcuify slices the padded planes into MCUs, walking MCU rows top to
// bottom and MCU columns left to right. Samples are level shifted by -128
// with two's-complement wrap.
func mcuify(p *yCbCrImage) []mcu {
	mcus := make([]mcu, 0, p.paddedWidth/16*p.paddedHeight/8)
	for y := 0; y < p.paddedHeight; y += 8 {
		for x := 0; x < p.paddedWidth; x += 16 {
			var m mcu
			extractBlock(&m.y0, p.y, p.paddedWidth, x, y)
			extractBlock(&m.y1, p.y, p.paddedWidth, x+8, y)
			extractBlock(&m.cb, p.cb, p.paddedWidth/2, x/2, y)
			extractBlock(&m.cr, p.cr, p.paddedWidth/2, x/2, y)
			mcus = append(mcus, m)
		}
	}
	return mcus
}

// extractBlock copies one 8x8 block from a plane starting at (x0,y0),
// subtracting 128 from each sample.
func extractBlock(du *dataUnit, plane []byte, stride, x0, y0 int) {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			du[r][c] = int8(int(plane[(y0+r)*stride+x0+c]) - 128)
		}
	}
}
