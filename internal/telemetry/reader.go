package telemetry

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
)

// MaxLineLength caps a single line. A longer line is consumed up to its
// newline and reported as ErrLineTooLong.
const MaxLineLength = 64 * 1024

// ErrLineTooLong is returned by ReadLine for a line over MaxLineLength. The
// line has been consumed; the next call reads the following line.
var ErrLineTooLong = errors.New("line too long")

// LineReader reads newline terminated text lines from a byte stream such as
// a serial port.
type LineReader struct {
	r *bufio.Reader
}

// NewLineReader wraps r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// ReadLine blocks until a full line is available and returns it without the
// line terminator. A last line without terminator is returned before io.EOF.
// A line over MaxLineLength yields ErrLineTooLong and no text.
func (lr *LineReader) ReadLine() (string, error) {
	var (
		sb       strings.Builder
		overflow bool
	)
	for {
		chunk, err := lr.r.ReadSlice('\n')
		if !overflow {
			if sb.Len()+len(bytes.TrimRight(chunk, "\r\n")) > MaxLineLength {
				overflow = true
				sb.Reset()
			} else {
				sb.Write(chunk)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && err != io.EOF {
			return "", err
		}
		if err == io.EOF && !overflow && sb.Len() == 0 {
			return "", io.EOF
		}
		if overflow {
			return "", ErrLineTooLong
		}
		return strings.TrimRight(sb.String(), "\r\n"), nil
	}
}
