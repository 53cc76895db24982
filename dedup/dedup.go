// Package dedup removes arXiv preprint citations that duplicate an
// already-published entry. The heuristic compares titles by their
// longest run of identical consecutive words; abbreviated or reworded
// titles slip through, and a long shared generic phrase can cause a
// false positive. Both are accepted trade-offs.
package dedup

import (
	"regexp"
	"strings"

	"github.com/bibtools/bibmano/schema/manubot"
)

// DefaultMinOverlap is the consecutive-word run a title pair must share
// before the preprint counts as a duplicate.
const DefaultMinOverlap = 6

// Removal describes one suppressed preprint, for the caller to render.
// The core itself never prints.
type Removal struct {
	ID             string `json:"id"`
	PreprintTitle  string `json:"preprint_title"`
	PublishedID    string `json:"published_id"`
	PublishedTitle string `json:"published_title"`
	Overlap        int    `json:"overlap"`
}

var wordRegex = regexp.MustCompile(`\b\w+\b`)

// tokenize lowercases a title and splits it into alphanumeric word
// tokens, punctuation acting as separators.
func tokenize(title string) []string {
	return wordRegex.FindAllString(strings.ToLower(title), -1)
}

// longestRun returns the longest run of identical consecutive words
// shared by two token sequences. Quadratic in the token counts, which
// is fine for per-document title lengths.
func longestRun(a, b []string) int {
	var max int
	for i := range a {
		for j := range b {
			var run int
			for i+run < len(a) && j+run < len(b) && a[i+run] == b[j+run] {
				run++
			}
			if run > max {
				max = run
			}
		}
	}
	return max
}

// RemoveArxivDuplicates filters out preprint citations whose title
// shares a consecutive-word run of at least minOverlap with some
// published citation's title. The first qualifying published match
// wins; remaining candidates are not compared. Returns a new slice
// with input order preserved, plus one removal event per suppressed
// entry. Entries that stay are not touched.
func RemoveArxivDuplicates(citations []manubot.Citation, minOverlap int) ([]manubot.Citation, []Removal) {
	if minOverlap <= 0 {
		minOverlap = DefaultMinOverlap
	}
	var published []manubot.Citation
	for _, c := range citations {
		if !isPreprint(&c) {
			published = append(published, c)
		}
	}
	var (
		kept     []manubot.Citation
		removals []Removal
	)
	for _, c := range citations {
		if !isPreprint(&c) || c.Title == "" {
			kept = append(kept, c)
			continue
		}
		tokens := tokenize(c.Title)
		removed := false
		for _, p := range published {
			if p.Title == "" {
				continue
			}
			overlap := longestRun(tokens, tokenize(p.Title))
			if overlap >= minOverlap {
				removals = append(removals, Removal{
					ID:             c.ID,
					PreprintTitle:  c.Title,
					PublishedID:    p.ID,
					PublishedTitle: p.Title,
					Overlap:        overlap,
				})
				removed = true
				break
			}
		}
		if !removed {
			kept = append(kept, c)
		}
	}
	return kept, removals
}

// isPreprint prefers the explicit provenance flag and keeps the venue
// label comparison for citations built by older tool versions, where
// the flag is absent.
func isPreprint(c *manubot.Citation) bool {
	return c.Preprint || c.Venue == "CoRR"
}
