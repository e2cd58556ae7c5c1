package layout

import "strings"

// RemoveInnerDuplicates drops every fragment fully contained in the next
// surviving fragment, keeping the longer, more complete capture. Applying
// it twice gives the same result as applying it once.
func RemoveInnerDuplicates(fragments []string) []string {
	if len(fragments) == 0 {
		return nil
	}
	kept := []string{fragments[len(fragments)-1]}
	for i := len(fragments) - 2; i >= 0; i-- {
		next := kept[len(kept)-1]
		if strings.Contains(next, fragments[i]) {
			continue
		}
		kept = append(kept, fragments[i])
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}

// Overlap returns the length of the longest suffix of a that is also a
// prefix of b. Only suffixes starting in [len(a)-min(len(a), len(b)), len(a))
// are tried, so the overlap never exceeds the shorter string.
func Overlap(a, b string) int {
	m := min(len(a), len(b))
	for i := len(a) - m; i < len(a); i++ {
		if strings.HasPrefix(b, a[i:]) {
			return len(a) - i
		}
	}
	return 0
}

// JoinList folds fragments left to right, appending only the part of each
// fragment not already covered by the overlap with the text so far.
// Fragments with no overlap are concatenated as they are.
func JoinList(fragments []string) string {
	if len(fragments) == 0 {
		return ""
	}
	joined := fragments[0]
	for _, next := range fragments[1:] {
		joined += next[Overlap(joined, next):]
	}
	return joined
}

// BlockText reconciles a block of lines into one string. Each line ends
// with a single space, as text-layer lines end with a line break, so lines
// that do not overlap stay separated by whitespace.
func BlockText(lines []PageLine) string {
	fragments := make([]string, len(lines))
	for i, l := range lines {
		fragments[i] = l.Text + " "
	}
	return strings.TrimSpace(JoinList(RemoveInnerDuplicates(fragments)))
}

// SplitOnMajorGap splits header lines at the largest vertical gap between
// consecutive lines: authors above, affiliations below. Fewer than two
// lines would leave one side empty and is a layout failure.
func SplitOnMajorGap(lines []PageLine) (authors, affiliations []PageLine, err error) {
	if len(lines) < 2 {
		return nil, nil, layoutErrorf("split", "need at least 2 header lines, have %d", len(lines))
	}

	split, widest := 0, -1
	for i := 0; i+1 < len(lines); i++ {
		gap := lines[i].YTop - lines[i+1].YBottom
		if gap > widest {
			split, widest = i, gap
		}
	}

	return lines[:split+1], lines[split+1:], nil
}
