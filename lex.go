/*
DESCRIPTION
  lex.go provides a lexer to split a stream of concatenated JPEG images,
  such as an MJPEG stream, into individual frames.

AUTHOR
  Dan Kortschak <dan@ausocean.org>
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
	"bufio"
	"encoding/binary"
	"io"
	"time"

	"github.com/pkg/errors"
)

// Lex splits a stream of concatenated JPEG images read from src into
// individual frames, writing each complete frame to dst with successive
// writes separated by at least delay. Frames are recovered structurally,
// by walking marker segments and the byte-stuffed scan, so 0xff bytes
// inside segment bodies cannot be mistaken for frame boundaries. Lex
// returns nil once src is exhausted on a frame boundary.
func Lex(dst io.Writer, src io.Reader, delay time.Duration) error {
	r := bufio.NewReader(src)
	for n := 0; ; n++ {
		if _, err := r.Peek(1); err == io.EOF {
			return nil
		}

		frame, err := lexFrame(r)
		if err != nil {
			return err
		}
		Log.Debug("lexed JPEG frame", "number", n, "length", len(frame))

		if n > 0 && delay > 0 {
			time.Sleep(delay)
		}
		if _, err := dst.Write(frame); err != nil {
			return err
		}
	}
}

// lexFrame reads one complete frame: SOI, a run of length-framed
// segments, and on SOS the entropy-coded scan through to EOI.
func lexFrame(r *bufio.Reader) ([]byte, error) {
	frame, code, err := lexMarker(r, nil)
	if err != nil {
		return nil, err
	}
	if code != codeSOI {
		return nil, errors.Wrapf(ErrBadMarker, "frame starts with %#x", code)
	}

	for {
		frame, code, err = lexMarker(r, frame)
		if err != nil {
			return nil, err
		}
		switch code {
		case codeEOI:
			return frame, nil
		case codeSOS:
			frame, err = lexSegment(r, frame)
			if err != nil {
				return nil, err
			}
			return lexScan(r, frame)
		case codeSOI:
			return nil, errors.Wrap(ErrBadMarker, "SOI inside frame")
		default:
			frame, err = lexSegment(r, frame)
			if err != nil {
				return nil, err
			}
		}
	}
}

// lexMarker appends the next two-byte marker to frame and returns its
// code.
func lexMarker(r *bufio.Reader, frame []byte) ([]byte, byte, error) {
	var m [2]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, 0, errors.Wrap(ErrTruncated, "marker")
	}
	if m[0] != 0xff {
		return nil, 0, errors.Wrapf(ErrBadMarker, "%#x is not a marker prefix", m[0])
	}
	return append(frame, m[0], m[1]), m[1], nil
}

// lexSegment appends a segment's length field and body to frame.
func lexSegment(r *bufio.Reader, frame []byte) ([]byte, error) {
	var l [2]byte
	if _, err := io.ReadFull(r, l[:]); err != nil {
		return nil, errors.Wrap(ErrTruncated, "segment length")
	}
	n := int(binary.BigEndian.Uint16(l[:]))
	if n < 2 {
		return nil, ErrBadLength
	}

	body := make([]byte, n-2)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, errors.Wrap(ErrTruncated, "segment body")
	}
	return append(append(frame, l[0], l[1]), body...), nil
}

// lexScan appends scan bytes to frame through to the EOI marker, applying
// the same stuffing rule as the decoder: a 0xff is only a marker prefix
// if not followed by 0x00.
func lexScan(r *bufio.Reader, frame []byte) ([]byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, errors.Wrap(ErrTruncated, "scan")
		}
		frame = append(frame, b)
		if b != 0xff {
			continue
		}

		nb, err := r.ReadByte()
		if err != nil {
			return nil, errors.Wrap(ErrTruncated, "scan marker")
		}
		frame = append(frame, nb)
		switch nb {
		case 0x00: // Stuffed data byte.
		case codeEOI:
			return frame, nil
		default:
			return nil, errors.Wrapf(ErrBadMarker, "marker %#x in scan", nb)
		}
	}
}
