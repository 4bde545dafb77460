package record

import (
	"bufio"
	"bytes"
	"io"
)

// ElementSplitter returns a bufio.SplitFunc that yields complete elements
// with the given qualified name, e.g. "gmd:MD_Metadata" records embedded in
// a CSW GetRecords response. Content between elements is discarded. Nested
// elements of the same name stay inside their outermost element. The maximum
// element size is the scanner's buffer limit.
func ElementSplitter(name string) bufio.SplitFunc {
	var (
		open  = []byte("<" + name)
		close = []byte("</" + name + ">")
	)
	return func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		start, end := findElement(data, open, close)
		switch {
		case start < 0:
			if atEOF {
				return len(data), nil, nil
			}
			// Keep a tail that could be the beginning of an open tag.
			if n := len(data) - len(open); n > 0 {
				return n, nil, nil
			}
			return 0, nil, nil
		case end < 0:
			if atEOF {
				return len(data), nil, io.ErrUnexpectedEOF
			}
			return start, nil, nil
		default:
			return end, data[start:end], nil
		}
	}
}

func isTagTerminator(ch byte) bool {
	switch ch {
	case '>', ' ', '/', '\n', '\t', '\r':
		return true
	}
	return false
}

// openTagAt returns the index of the next open tag at or after i, or -1. A
// tag cut off at the end of data counts, so callers wait for more data.
func openTagAt(data, open []byte, i int) int {
	for i < len(data) {
		k := bytes.Index(data[i:], open)
		if k < 0 {
			return -1
		}
		k += i
		next := k + len(open)
		if next >= len(data) || isTagTerminator(data[next]) {
			return k
		}
		i = k + 1
	}
	return -1
}

// findElement returns the bounds of the first complete element. The end is
// -1 if the element starts but is not complete yet.
func findElement(data, open, close []byte) (start, end int) {
	start = openTagAt(data, open, 0)
	if start < 0 {
		return -1, -1
	}
	var (
		depth int
		i     = start
	)
	for {
		o := openTagAt(data, open, i)
		c := bytes.Index(data[i:], close)
		if c >= 0 {
			c += i
		}
		switch {
		case o >= 0 && (c < 0 || o < c):
			gt := bytes.IndexByte(data[o:], '>')
			if gt < 0 {
				return start, -1
			}
			gt += o
			if data[gt-1] == '/' {
				if depth == 0 {
					return start, gt + 1
				}
			} else {
				depth++
			}
			i = gt + 1
		case c >= 0:
			depth--
			i = c + len(close)
			if depth == 0 {
				return start, i
			}
		default:
			return start, -1
		}
	}
}
