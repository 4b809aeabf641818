// Package selection parses package selectors such as "All", "2", "1,3,5",
// "2-4" or "1,3-5" into 1-based package indices.
package selection

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// All is the reserved selector for every package. It is case-sensitive.
const All = "All"

// ErrInvalidSelector is returned for input that does not match the grammar.
var ErrInvalidSelector = errors.New("invalid selector")

// maxRangeSpan bounds a single "N-M" term so a typo cannot allocate millions of indices.
const maxRangeSpan = 10000

// indexPattern is one 1-based index: no sign, no leading zero.
var indexPattern = regexp.MustCompile(`^[1-9][0-9]*$`)

// IsAll reports whether raw is the reserved "All" selector.
func IsAll(raw string) bool {
	return strings.TrimSpace(raw) == All
}

// Valid reports whether raw matches the selector grammar.
func Valid(raw string) bool {
	_, err := Parse(raw, 0)
	return err == nil
}

// Parse resolves raw into an ordered list of 1-based indices. Ranges are
// expanded per comma-separated term and duplicates are kept. Indices are not
// checked against packageCount; only "All" uses it.
func Parse(raw string, packageCount int) ([]int, error) {
	raw = strings.TrimSpace(raw)

	if raw == All {
		indices := make([]int, 0, max(packageCount, 0))
		for i := 1; i <= packageCount; i++ {
			indices = append(indices, i)
		}
		return indices, nil
	}

	invalid := fmt.Errorf("%w: '%s'", ErrInvalidSelector, raw)

	// Spaces are allowed only around "," and "-", never inside a number.
	var indices []int
	for _, term := range strings.Split(raw, ",") {
		from, to, isRange := strings.Cut(term, "-")
		start, ok := parseIndex(from)
		if !ok {
			return nil, invalid
		}
		if !isRange {
			indices = append(indices, start)
			continue
		}

		end, ok := parseIndex(to)
		if !ok {
			return nil, invalid
		}
		if end < start {
			return nil, fmt.Errorf("%w: '%s' (range %d-%d is reversed)", ErrInvalidSelector, raw, start, end)
		}
		if end-start >= maxRangeSpan {
			return nil, fmt.Errorf("%w: '%s' (range %d-%d is too large)", ErrInvalidSelector, raw, start, end)
		}
		for i := start; i <= end; i++ {
			indices = append(indices, i)
		}
	}
	return indices, nil
}

func parseIndex(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if !indexPattern.MatchString(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
