/*
DESCRIPTION
  quant_test.go provides testing for quantization in quant.go.

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

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestQuantizeTutorialBlock(t *testing.T) {
	want := quantizedDataUnit{
		{-26, -3, -6, 2, 2, -1, 0, 0},
		{0, -2, -4, 1, 1, 0, 0, 0},
		{-3, 1, 5, -1, -1, 0, 0, 0},
		{-3, 1, 2, -1, 0, 0, 0, 0},
		{1, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
	}

	got := quantize(fdct(&dctTestBlock), &luminanceQuantTable)
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("unexpected quantized block (-want +got):\n%s", diff)
	}
}

func TestQuantizeMonotone(t *testing.T) {
	var f1, f2 dctDataUnit
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			v := float64(i*59-j*83) / 3
			f1[i][j] = v
			f2[i][j] = v * 2.5
		}
	}

	q1 := quantize(&f1, &luminanceQuantTable)
	q2 := quantize(&f2, &luminanceQuantTable)
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			a, b := q1[i][j], q2[i][j]
			if a < 0 {
				a = -a
			}
			if b < 0 {
				b = -b
			}
			if a > b {
				t.Errorf("monotonicity violated at (%d,%d): |%d| > |%d|", i, j, q1[i][j], q2[i][j])
			}
		}
	}
}

func TestDequantize(t *testing.T) {
	var q quantizedDataUnit
	q[0][0] = -26
	q[3][5] = 7
	q[7][7] = -1

	got := dequantize(&q, &luminanceQuantTable)
	if got[0][0] != -26*16 {
		t.Errorf("unexpected DC: got:%d want:%d", got[0][0], -26*16)
	}
	if got[3][5] != 7*87 {
		t.Errorf("unexpected (3,5): got:%d want:%d", got[3][5], 7*87)
	}
	if got[7][7] != -99 {
		t.Errorf("unexpected (7,7): got:%d want:-99", got[7][7])
	}
}

// The wire carries table entries in zigzag order; serializing a DQT must
// emit the natural-order table's entries in that order.
func TestQuantTableWireOrder(t *testing.T) {
	body := dqtBody(0, &luminanceQuantTable)
	if len(body) != 65 {
		t.Fatalf("unexpected DQT body length: %d", len(body))
	}
	// First three zigzag entries are positions (0,0), (0,1), (1,0).
	if body[1] != 16 || body[2] != 11 || body[3] != 12 {
		t.Errorf("unexpected leading zigzag entries: %v", body[1:4])
	}
}
