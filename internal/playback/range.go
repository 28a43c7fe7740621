package playback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidRange  = errors.New("invalid range format")
	ErrUnsatisfiable = errors.New("range not satisfiable")
)

// byteRange is one satisfiable byte span within a file of known size.
type byteRange struct {
	start int64
	end   int64
}

func (r byteRange) length() int64 {
	return r.end - r.start + 1
}

func (r byteRange) contentRange(total int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.start, r.end, total)
}

// parseRange interprets a Range header against a file size. An empty header
// yields (nil, nil): the caller serves the whole file. Only the first spec of
// a multi-range header is honored.
func parseRange(header string, size int64) (*byteRange, error) {
	if header == "" {
		return nil, nil
	}

	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return nil, ErrInvalidRange
	}
	if idx := strings.IndexByte(spec, ','); idx != -1 {
		spec = strings.TrimSpace(spec[:idx])
	}

	first, last, ok := strings.Cut(spec, "-")
	if !ok {
		return nil, ErrInvalidRange
	}

	r := byteRange{end: size - 1}
	switch {
	case first == "":
		// Suffix form: the final N bytes.
		n, err := strconv.ParseInt(last, 10, 64)
		if err != nil || n <= 0 {
			return nil, ErrInvalidRange
		}
		if r.start = size - n; r.start < 0 {
			r.start = 0
		}
	default:
		var err error
		if r.start, err = strconv.ParseInt(first, 10, 64); err != nil || r.start < 0 {
			return nil, ErrInvalidRange
		}
		if last != "" {
			if r.end, err = strconv.ParseInt(last, 10, 64); err != nil {
				return nil, ErrInvalidRange
			}
		}
	}

	if r.start > r.end || r.start >= size {
		return nil, ErrUnsatisfiable
	}
	if r.end >= size {
		r.end = size - 1
	}
	return &r, nil
}
