/*
DESCRIPTION
  zigzag_test.go provides testing for the zigzag permutation in zigzag.go.

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

// The matrix whose zigzag traversal visits 0..63 in order.
var zigzagIndexMatrix = quantizedDataUnit{
	{0, 1, 5, 6, 14, 15, 27, 28},
	{2, 4, 7, 13, 16, 26, 29, 42},
	{3, 8, 12, 17, 25, 30, 41, 43},
	{9, 11, 18, 24, 31, 40, 44, 53},
	{10, 19, 23, 32, 39, 45, 52, 54},
	{20, 22, 33, 38, 46, 51, 55, 60},
	{21, 34, 37, 47, 50, 56, 59, 61},
	{35, 36, 48, 49, 57, 58, 62, 63},
}

func TestToZigzag(t *testing.T) {
	got := toZigzag(&zigzagIndexMatrix)
	var want zigzagDataUnit
	for i := range want {
		want[i] = int16(i)
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("unexpected zigzag order (-want +got):\n%s", diff)
	}
}

func TestFromZigzag(t *testing.T) {
	var z zigzagDataUnit
	for i := range z {
		z[i] = int16(i)
	}
	got := fromZigzag(&z)
	if diff := cmp.Diff(zigzagIndexMatrix, *got); diff != "" {
		t.Errorf("unexpected unzigzag result (-want +got):\n%s", diff)
	}
}

func TestZigzagRoundTrip(t *testing.T) {
	var q quantizedDataUnit
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			q[i][j] = int16(i*31 - j*17)
		}
	}
	got := fromZigzag(toZigzag(&q))
	if diff := cmp.Diff(q, *got); diff != "" {
		t.Errorf("round trip not identity (-want +got):\n%s", diff)
	}
}

func TestZigzagIsBijection(t *testing.T) {
	var seen [64]bool
	for _, pos := range &zigzag {
		if pos < 0 || pos > 63 {
			t.Fatalf("position %d out of range", pos)
		}
		if seen[pos] {
			t.Fatalf("position %d visited twice", pos)
		}
		seen[pos] = true
	}
}
