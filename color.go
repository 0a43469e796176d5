/*
DESCRIPTION
  color.go provides the RGB to YCbCr color transform, 4:2:2 chroma
  subsampling and edge-replication padding used on encode, and the
  inverse transform used on decode.

AUTHOR
  Russell Stanley <russell@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package jpeg

import "math"

// yCbCrImage holds planar YCbCr 4:2:2 samples. The Y plane is
// paddedWidth x paddedHeight; the Cb and Cr planes are half width at full
// height. The original raster dimensions are retained for the frame header.
type yCbCrImage struct {
	width        int
	height       int
	paddedWidth  int
	paddedHeight int
	y            []byte
	cb           []byte
	cr           []byte
}

// rgbToYCbCr converts one pixel with the JFIF matrix, rounding to nearest
// and clamping to [0,255].
func rgbToYCbCr(r, g, b byte) (y, cb, cr byte) {
	rf, gf, bf := float64(r), float64(g), float64(b)
	y = clampRound(0.299*rf + 0.587*gf + 0.114*bf)
	cb = clampRound(-0.1687*rf - 0.3313*gf + 0.5*bf + 128)
	cr = clampRound(0.5*rf - 0.4187*gf - 0.0813*bf + 128)
	return
}

// yCbCrToRGB applies the inverse JFIF matrix with the same rounding and
// clamping as the forward transform.
func yCbCrToRGB(y, cb, cr byte) (r, g, b byte) {
	yf := float64(y)
	cbf := float64(cb) - 128
	crf := float64(cr) - 128
	r = clampRound(yf + 1.402*crf)
	g = clampRound(yf - 0.344136*cbf - 0.714136*crf)
	b = clampRound(yf + 1.772*cbf)
	return
}

func clampRound(v float64) byte {
	return byte(clip(int(math.Round(v)), 0, 255))
}

// rgbToYUV422 converts a raster to planar YCbCr 4:2:2. The planes are
// padded to a multiple of 16 columns and 8 rows by replicating the last
// real sample; each pair of horizontally adjacent chroma samples is
// averaged to produce the half-resolution chroma planes.
func rgbToYUV422(img *Image) *yCbCrImage {
	pw := (img.Width + 15) &^ 15
	ph := (img.Height + 7) &^ 7

	p := &yCbCrImage{
		width:        img.Width,
		height:       img.Height,
		paddedWidth:  pw,
		paddedHeight: ph,
		y:            make([]byte, pw*ph),
		cb:           make([]byte, pw/2*ph),
		cr:           make([]byte, pw/2*ph),
	}

	// Full-resolution chroma for one row; subsampled below.
	cbRow := make([]byte, pw)
	crRow := make([]byte, pw)

	for row := 0; row < ph; row++ {
		srcRow := clip(row, 0, img.Height-1)
		for col := 0; col < pw; col++ {
			srcCol := clip(col, 0, img.Width-1)
			off := (srcRow*img.Width + srcCol) * 3
			y, cb, cr := rgbToYCbCr(img.Pix[off], img.Pix[off+1], img.Pix[off+2])
			p.y[row*pw+col] = y
			cbRow[col] = cb
			crRow[col] = cr
		}
		for cx := 0; cx < pw/2; cx++ {
			p.cb[row*(pw/2)+cx] = avg(cbRow[2*cx], cbRow[2*cx+1])
			p.cr[row*(pw/2)+cx] = avg(crRow[2*cx], crRow[2*cx+1])
		}
	}
	return p
}

// avg averages two chroma samples, rounding up on ties.
func avg(a, b byte) byte {
	return byte((int(a) + int(b) + 1) / 2)
}
