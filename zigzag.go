/*
DESCRIPTION
  zigzag.go provides the zigzag permutation applied to 8x8 blocks of
  quantized coefficients and to quantization tables on the wire.

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

// zigzag maps zigzag index k to the row-major position of the k-th
// coefficient in the 8x8 grid. The same permutation orders quantization
// table entries on the wire.
var zigzag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// toZigzag flattens a quantized 8x8 block into zigzag order.
func toZigzag(q *quantizedDataUnit) *zigzagDataUnit {
	var z zigzagDataUnit
	for k, pos := range &zigzag {
		z[k] = q[pos/8][pos%8]
	}
	return &z
}

// fromZigzag restores a zigzag vector to its natural 2D positions.
func fromZigzag(z *zigzagDataUnit) *quantizedDataUnit {
	var q quantizedDataUnit
	for k, pos := range &zigzag {
		q[pos/8][pos%8] = z[k]
	}
	return &q
}
