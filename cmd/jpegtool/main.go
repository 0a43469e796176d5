/*
DESCRIPTION
  jpegtool compresses rasters to baseline JPEG and decompresses baseline
  JPEGs back to rasters. Dispatch is by extension: a .jpg or .jpeg input
  is decoded to out.bmp in the current directory, a .mjpg or .mjpeg
  stream is split into frames with each decoded to a numbered BMP, and
  any other input is loaded as a BMP and encoded to out.jpg.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is a command line converter between BMP rasters and
// baseline JPEG files or MJPEG streams.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/jpeg"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v1.0.0"

// Logging configuration.
const (
	logPath      = "jpegtool.log"
	logMaxSize   = 50 // MB
	logMaxBackup = 2
	logMaxAge    = 28 // days
	logSuppress  = true
)

// Output file names, written to the current directory. Stream frames are
// numbered out-000.bmp, out-001.bmp and so on.
const (
	outJPEG     = "out.jpg"
	outBMP      = "out.bmp"
	outFrameFmt = "out-%03d.bmp"
)

func main() {
	showVersion := flag.Bool("version", false, "show version")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Create lumberjack logger to handle logging to file.
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}

	verbosity := logging.Info
	if *debug {
		verbosity = logging.Debug
	}
	log := logging.New(verbosity, fileLog, logSuppress)
	jpeg.Log = log

	input := flag.Arg(0)
	if input == "" {
		fmt.Fprintln(os.Stderr, "usage: jpegtool [flags] <input>")
		os.Exit(1)
	}

	var err error
	switch strings.ToLower(filepath.Ext(input)) {
	case ".jpg", ".jpeg":
		err = decodeFile(input)
	case ".mjpg", ".mjpeg":
		err = decodeStreamFile(input)
	default:
		err = encodeFile(input)
	}
	if err != nil {
		log.Error("conversion failed", "input", input, "error", err.Error())
		fmt.Fprintln(os.Stderr, errors.Cause(err))
		os.Exit(1)
	}
}

// decodeFile decodes a JPEG file and writes the raster to out.bmp.
func decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "could not read input")
	}

	img, err := jpeg.Decode(data)
	if err != nil {
		return errors.Wrap(err, "could not decode JPEG")
	}
	return writeBMP(outBMP, img)
}

// decodeStreamFile splits an MJPEG stream into its JPEG frames, decoding
// each to a numbered BMP.
func decodeStreamFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "could not open input")
	}
	defer f.Close()

	var dec frameDecoder
	if err := jpeg.Lex(&dec, f, 0); err != nil {
		return errors.Wrapf(err, "could not lex MJPEG stream after %d frames", dec.n)
	}
	if dec.n == 0 {
		return errors.New("no frames in stream")
	}
	return nil
}

// frameDecoder is the lexer destination: each write is one complete JPEG
// frame, decoded and saved as a numbered BMP.
type frameDecoder struct {
	n int
}

func (d *frameDecoder) Write(b []byte) (int, error) {
	img, err := jpeg.Decode(b)
	if err != nil {
		return 0, errors.Wrapf(err, "could not decode frame %d", d.n)
	}
	if err := writeBMP(fmt.Sprintf(outFrameFmt, d.n), img); err != nil {
		return 0, err
	}
	d.n++
	return len(b), nil
}

// writeBMP saves a decoded raster as a BMP file.
func writeBMP(name string, img *jpeg.Image) error {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			off := (y*img.Width + x) * 3
			out.SetRGBA(x, y, color.RGBA{
				R: img.Pix[off],
				G: img.Pix[off+1],
				B: img.Pix[off+2],
				A: 0xff,
			})
		}
	}

	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "could not create output")
	}
	defer f.Close()
	return errors.Wrap(bmp.Encode(f, out), "could not write BMP")
}

// encodeFile loads a BMP raster and writes the encoded JPEG to out.jpg.
func encodeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "could not open input")
	}
	defer f.Close()

	m, err := bmp.Decode(f)
	if err != nil {
		return errors.Wrap(err, "could not decode BMP")
	}

	b := m.Bounds()
	img := &jpeg.Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]byte, b.Dx()*b.Dy()*3),
	}
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, bl, _ := m.At(b.Min.X+x, b.Min.Y+y).RGBA()
			off := (y*img.Width + x) * 3
			img.Pix[off] = byte(r >> 8)
			img.Pix[off+1] = byte(g >> 8)
			img.Pix[off+2] = byte(bl >> 8)
		}
	}

	data, err := jpeg.Encode(img)
	if err != nil {
		return errors.Wrap(err, "could not encode JPEG")
	}
	return errors.Wrap(os.WriteFile(outJPEG, data, 0644), "could not write output")
}
