/*
DESCRIPTION
  jpeg.go provides the public surface of the jpeg package: the Image raster
  type, the marker codes and JFIF constants used on the wire, and the
  sentinel errors surfaced by Encode and Decode.

AUTHOR
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package jpeg implements a baseline JFIF codec. Encode compresses an 8-bit
// RGB raster to a single-scan baseline-DCT JPEG with YCbCr 4:2:2 sampling
// and the default quantization and Huffman tables; Decode reverses any
// baseline 3-component (or grayscale) Huffman-coded JPEG with sampling
// factors of 1 or 2. Both operate on fully buffered byte slices.
package jpeg

import (
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Log is used for any debug logging performed by this package. It must be
// set before calling Lex.
var Log logging.Logger

// Marker codes. On the wire a marker is 0xff followed by one of these.
const (
	codeSOI   = 0xd8 // Start of image.
	codeEOI   = 0xd9 // End of image.
	codeSOF0  = 0xc0 // Start of frame, baseline DCT.
	codeSOF2  = 0xc2 // Start of frame, progressive DCT (unsupported).
	codeDHT   = 0xc4 // Define Huffman table.
	codeDQT   = 0xdb // Define quantization table.
	codeDRI   = 0xdd // Define restart interval (unsupported).
	codeSOS   = 0xda // Start of scan.
	codeAPP0  = 0xe0 // JFIF application segment.
	codeAPP15 = 0xef // Last application segment.
)

// JFIF APP0 defaults.
const (
	jfifLabel       = "JFIF\x00"
	jfifVerMajor    = 1
	jfifVerMinor    = 1
	jfifDensityUnit = 0 // No units, aspect ratio only.
	jfifXDensity    = 1
	jfifYDensity    = 1
	jfifXThumb      = 0
	jfifYThumb      = 0
)

// Errors returned by Encode and Decode. Decode errors wrap these with
// positional context; use errors.Cause to recover the category.
var (
	ErrTruncated           = errors.New("truncated input")
	ErrBadMarker           = errors.New("bad marker")
	ErrUnsupported         = errors.New("unsupported feature")
	ErrBadLength           = errors.New("bad segment length")
	ErrHuffmanDecode       = errors.New("huffman decode failure")
	ErrScanOverflow        = errors.New("scan overflow")
	ErrMissingQuantTable   = errors.New("quantization table missing")
	ErrMissingHuffmanTable = errors.New("huffman table missing")
	ErrBadDimensions       = errors.New("bad image dimensions")
)

// Image is an 8-bit RGB raster. Pix holds Width*Height*3 bytes in row-major
// channel-interleaved order. Encode never mutates it.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// clip clips the value v to the bounds defined by min and max.
func clip(v, min, max int) int {
	if v < min {
		return min
	}

	if v > max {
		return max
	}

	return v
}
