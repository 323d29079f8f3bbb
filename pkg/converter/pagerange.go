package converter

import (
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// PageRange is an inclusive span of 1-based entry positions.
type PageRange struct {
	Start int
	End   int
}

func (r PageRange) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
}

// PageRangeSet is a normalised selection: sorted, with overlapping and
// adjacent spans merged.
type PageRangeSet struct {
	ranges []PageRange
}

// ParsePageRanges parses a page selection like "1-3,7,10-12". An empty string
// selects everything.
func ParsePageRanges(selection string) (*PageRangeSet, error) {
	var ranges []PageRange
	for part := range strings.SplitSeq(selection, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := parsePageRange(part)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return &PageRangeSet{ranges: mergeRanges(ranges)}, nil
}

func parsePageRange(part string) (PageRange, error) {
	lo, hi, isSpan := strings.Cut(part, "-")
	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return PageRange{}, errors.Errorf("invalid page %q", part)
	}
	if !isSpan {
		return PageRange{Start: start, End: start}, nil
	}
	end, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return PageRange{}, errors.Errorf("invalid page range %q", part)
	}
	if start > end {
		return PageRange{}, errors.Errorf("page range %q runs backwards", part)
	}
	return PageRange{Start: start, End: end}, nil
}

func mergeRanges(ranges []PageRange) []PageRange {
	slices.SortFunc(ranges, func(a, b PageRange) int { return a.Start - b.Start })
	var merged []PageRange
	for _, r := range ranges {
		if n := len(merged); n > 0 && r.Start <= merged[n-1].End+1 {
			merged[n-1].End = max(merged[n-1].End, r.End)
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// IsEmpty reports whether no range was given, which selects every page.
func (prs *PageRangeSet) IsEmpty() bool {
	return prs == nil || len(prs.ranges) == 0
}

// Contains reports whether the 1-based position n is selected.
func (prs *PageRangeSet) Contains(n int) bool {
	if prs == nil {
		return false
	}
	_, found := slices.BinarySearchFunc(prs.ranges, n, func(r PageRange, n int) int {
		switch {
		case r.End < n:
			return -1
		case r.Start > n:
			return 1
		}
		return 0
	})
	return found
}

// Count returns how many positions are selected.
func (prs *PageRangeSet) Count() int {
	if prs == nil {
		return 0
	}
	count := 0
	for _, r := range prs.ranges {
		count += r.End - r.Start + 1
	}
	return count
}

// Ranges returns a copy of the merged spans.
func (prs *PageRangeSet) Ranges() []PageRange {
	if prs == nil {
		return nil
	}
	return slices.Clone(prs.ranges)
}

func (prs *PageRangeSet) String() string {
	if prs == nil {
		return ""
	}
	parts := make([]string, len(prs.ranges))
	for i, r := range prs.ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

// ValidateAgainstTotal checks that every selected position exists among
// total entries.
func (prs *PageRangeSet) ValidateAgainstTotal(total int) error {
	if prs.IsEmpty() {
		return nil
	}
	if first := prs.ranges[0]; first.Start < 1 {
		return errors.Errorf("pages are numbered from 1, got %d", first.Start)
	}
	if last := prs.ranges[len(prs.ranges)-1]; last.End > total {
		return errors.Errorf("page %d is out of range, found %d pages", last.End, total)
	}
	return nil
}

// SelectEntries keeps the entries whose 1-based position is in prs. An empty
// set keeps all of them.
func SelectEntries[T any](entries []T, prs *PageRangeSet) []T {
	if prs.IsEmpty() {
		return entries
	}
	selected := make([]T, 0, min(prs.Count(), len(entries)))
	for i, e := range entries {
		if prs.Contains(i + 1) {
			selected = append(selected, e)
		}
	}
	return selected
}
