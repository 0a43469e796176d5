/*
DESCRIPTION
  quant.go provides the built-in quantization tables and the elementwise
  quantize and dequantize steps of the codec pipeline.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import "math"

// quantTable is an 8x8 table of quantizer step sizes in natural order.
type quantTable [8][8]uint16

// The two built-in tables used on encode. Both are immutable after
// initialisation and shared by all encodes.
var (
	luminanceQuantTable = quantTable{
		{16, 11, 10, 16, 24, 40, 51, 61},
		{12, 12, 14, 19, 26, 58, 60, 55},
		{14, 13, 16, 24, 40, 57, 69, 56},
		{14, 17, 22, 29, 51, 87, 80, 62},
		{18, 22, 37, 56, 68, 109, 103, 77},
		{24, 35, 55, 64, 81, 104, 113, 92},
		{49, 64, 78, 87, 103, 121, 120, 101},
		{72, 92, 95, 98, 112, 100, 103, 99},
	}

	chrominanceQuantTable = quantTable{
		{17, 18, 24, 47, 99, 99, 99, 99},
		{18, 21, 26, 66, 99, 99, 99, 99},
		{24, 26, 56, 99, 99, 99, 99, 99},
		{47, 66, 99, 99, 99, 99, 99, 99},
		{99, 99, 99, 99, 99, 99, 99, 99},
		{99, 99, 99, 99, 99, 99, 99, 99},
		{99, 99, 99, 99, 99, 99, 99, 99},
		{99, 99, 99, 99, 99, 99, 99, 99},
	}
)

// quantize divides each DCT coefficient by the corresponding step size,
// rounding to nearest with ties to even.
func quantize(f *dctDataUnit, q *quantTable) *quantizedDataUnit {
	var out quantizedDataUnit
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			out[i][j] = int16(math.RoundToEven(f[i][j] / float64(q[i][j])))
		}
	}
	return &out
}

// dequantize multiplies quantized coefficients back up by the step sizes.
// The product is taken in 32-bit so that 16-bit wire precision cannot
// overflow before the IDCT.
func dequantize(z *quantizedDataUnit, q *quantTable) *[8][8]int32 {
	var out [8][8]int32
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			out[i][j] = int32(z[i][j]) * int32(q[i][j])
		}
	}
	return &out
}
