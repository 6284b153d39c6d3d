// Package utils holds small helpers shared by the HTTP and service layers.
package utils

import (
	"strconv"
	"strings"
)

// Page is a 1-based page request. The zero value is treated as the first
// page with no rows.
type Page struct {
	Number int
	Size   int
}

// ParsePage reads page and page_size query values. Missing or malformed
// numbers fall back to page 1 and defSize; the size is bounded to
// [1, maxSize].
func ParsePage(number, size string, defSize, maxSize int) Page {
	n := IntParam(number, 1, 1, int(^uint(0)>>1))
	return Page{Number: n, Size: IntParam(size, defSize, 1, maxSize)}
}

// Offset is the number of rows before this page.
func (p Page) Offset() int {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// TotalPages is the page count for total rows.
func (p Page) TotalPages(total int64) int {
	if p.Size < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// IntParam parses s as a base-10 int bounded to [lo, hi]. Blank or malformed
// input yields def, which is bounded too.
func IntParam(s string, def, lo, hi int) int {
	n := def
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		n = v
	}
	switch {
	case n < lo:
		return lo
	case n > hi:
		return hi
	}
	return n
}
