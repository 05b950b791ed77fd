// Package xmlsplit cuts a stream of concatenated XML into elements of a given
// name, e.g. the records of a MARCXML collection or of OAI-PMH dumps.
package xmlsplit

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"regexp"
)

const (
	defaultMaxTokenSize = 1 << 26 // 64MB
	// tailSize is kept from data without any opening tag, since it may hold
	// the beginning of one.
	tailSize = 256
)

var (
	ErrInvalidSplitter     = errors.New("invalid splitter")
	errInvalidSplitterFunc = func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		return 0, nil, ErrInvalidSplitter
	}
)

// tagPattern matches opening and closing tags of an element with an optional
// namespace prefix. The first group is set for closing tags.
func tagPattern(tagName string) *regexp.Regexp {
	return regexp.MustCompile(`<(/)?(?:[A-Za-z_][\w.-]*:)?` + regexp.QuoteMeta(tagName) + `[\s/>]`)
}

// TagSplitter returns a bufio.SplitFunc that yields complete elements named
// tagName, including prefixed ones like marc:record. Data between elements is
// skipped, an incomplete element at the end of input is dropped.
func TagSplitter(tagName string) bufio.SplitFunc {
	if len(tagName) == 0 {
		return errInvalidSplitterFunc
	}
	re := tagPattern(tagName)
	return func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		start, end := findFirstComplete(data, re)
		switch {
		case end != -1:
			return end, data[start:end], nil
		case atEOF:
			return len(data), nil, nil
		case start == -1:
			if len(data) > tailSize {
				return len(data) - tailSize, nil, nil
			}
			return 0, nil, nil
		default:
			// skip leading data, wait for the rest of the element
			return start, nil, nil
		}
	}
}

// NewScanner returns a scanner over elements named tagName. A maxTokenSize of
// zero uses a default of 64MB.
func NewScanner(r io.Reader, tagName string, maxTokenSize int) *bufio.Scanner {
	if maxTokenSize <= 0 {
		maxTokenSize = defaultMaxTokenSize
	}
	initial := 64 * 1024
	if maxTokenSize < initial {
		initial = maxTokenSize
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initial), maxTokenSize)
	scanner.Split(TagSplitter(tagName))
	return scanner
}

// findFirstComplete returns the span of the first complete element. If there
// is none, start is the offset of the first opening tag or -1, end is -1.
func findFirstComplete(data []byte, re *regexp.Regexp) (start, end int) {
	var (
		matches    = re.FindAllSubmatchIndex(data, -1)
		incomplete = -1
	)
	for i, m := range matches {
		if m[2] != -1 {
			continue
		}
		if end := completeAt(data, matches[i:]); end != -1 {
			return m[0], end
		}
		if incomplete == -1 {
			incomplete = m[0]
		}
	}
	return incomplete, -1
}

// completeAt follows nesting from the opening tag in ms[0] and returns the
// offset after its closing tag, or -1.
func completeAt(data []byte, ms [][]int) int {
	var depth int
	for _, m := range ms {
		gt := bytes.IndexByte(data[m[0]:], '>')
		if gt == -1 {
			return -1
		}
		gt += m[0]
		switch {
		case m[2] != -1:
			depth--
		case data[gt-1] == '/':
			if depth == 0 {
				return gt + 1
			}
			continue
		default:
			depth++
		}
		if depth == 0 {
			return gt + 1
		}
	}
	return -1
}
