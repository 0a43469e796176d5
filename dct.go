/*
DESCRIPTION
  dct.go provides the forward and inverse 8x8 DCT-II with orthonormal
  scaling, implemented as separable row and column passes over a
  precomputed cosine basis.

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

import "math"

// dctBasis[u][x] = alpha(u)*cos((2x+1)u*pi/16), with alpha(0) = sqrt(1/8)
// and alpha(u>0) = sqrt(2/8). The basis is orthonormal, so the inverse
// transform is the transpose.
var dctBasis [8][8]float64

func init() {
	for u := 0; u < 8; u++ {
		alpha := math.Sqrt(2.0 / 8.0)
		if u == 0 {
			alpha = math.Sqrt(1.0 / 8.0)
		}
		for x := 0; x < 8; x++ {
			dctBasis[u][x] = alpha * math.Cos(float64((2*x+1)*u)*math.Pi/16)
		}
	}
}

// fdct computes the forward 2D DCT-II of a level-shifted block.
// F[u][v] = alpha(u)alpha(v) sum_{x,y} f[x][y] cos((2x+1)u*pi/16) cos((2y+1)v*pi/16).
func fdct(f *dataUnit) *dctDataUnit {
	// Columns first: g[u][y] = sum_x basis[u][x] * f[x][y].
	var g [8][8]float64
	for u := 0; u < 8; u++ {
		for y := 0; y < 8; y++ {
			var s float64
			for x := 0; x < 8; x++ {
				s += dctBasis[u][x] * float64(f[x][y])
			}
			g[u][y] = s
		}
	}

	// Then rows: F[u][v] = sum_y basis[v][y] * g[u][y].
	var out dctDataUnit
	for u := 0; u < 8; u++ {
		for v := 0; v < 8; v++ {
			var s float64
			for y := 0; y < 8; y++ {
				s += dctBasis[v][y] * g[u][y]
			}
			out[u][v] = s
		}
	}
	return &out
}

// idct computes the inverse 2D DCT, the transpose transform of fdct.
// f[x][y] = sum_{u,v} alpha(u)alpha(v) F[u][v] cos((2x+1)u*pi/16) cos((2y+1)v*pi/16).
func idct(coef *dctDataUnit) *dctDataUnit {
	// Rows first: t[u][y] = sum_v basis[v][y] * F[u][v].
	var t [8][8]float64
	for u := 0; u < 8; u++ {
		for y := 0; y < 8; y++ {
			var s float64
			for v := 0; v < 8; v++ {
				s += dctBasis[v][y] * coef[u][v]
			}
			t[u][y] = s
		}
	}

	var out dctDataUnit
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			var s float64
			for u := 0; u < 8; u++ {
				s += dctBasis[u][x] * t[u][y]
			}
			out[x][y] = s
		}
	}
	return &out
}
