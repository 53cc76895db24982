package dedup

import (
	"testing"

	"github.com/bibtools/bibmano/schema/manubot"
	"github.com/google/go-cmp/cmp"
)

func TestLongestRun(t *testing.T) {
	testCases := []struct {
		a, b   string
		result int
	}{
		{"", "", 0},
		{"deep learning", "", 0},
		{"deep learning", "deep learning", 2},
		{"Deep Learning for Graphs", "deep learning for graphs", 4},
		{"a b c d e", "x b c d y", 3},
		{"a b c", "c b a", 1},
		{"one two three", "four five six", 0},
	}
	for _, tc := range testCases {
		got := longestRun(tokenize(tc.a), tokenize(tc.b))
		if got != tc.result {
			t.Errorf("longestRun(%q, %q): got %d, want %d", tc.a, tc.b, got, tc.result)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("Deep Learning: A Survey, Part-II")
	want := []string{"deep", "learning", "a", "survey", "part", "ii"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("token mismatch (-want +got):\n%s", diff)
	}
}

func preprint(id, title string) manubot.Citation {
	return manubot.Citation{ID: id, Title: title, Venue: "CoRR", Preprint: true}
}

func published(id, title string) manubot.Citation {
	return manubot.Citation{ID: id, Title: title, Venue: "NeurIPS"}
}

func TestRemoveArxivDuplicates(t *testing.T) {
	citations := []manubot.Citation{
		published("doi:10.1234/a", "Deep Learning for Graph Neural Networks at Scale"),
		preprint("arxiv:2301.00001", "Deep Learning for Graph Neural Networks at Scale"),
		preprint("arxiv:2301.00002", "An Entirely Different Preprint About Something Else Entirely"),
	}
	kept, removals := RemoveArxivDuplicates(citations, 6)
	if len(kept) != 2 {
		t.Fatalf("got %d kept, want 2", len(kept))
	}
	if kept[0].ID != "doi:10.1234/a" || kept[1].ID != "arxiv:2301.00002" {
		t.Errorf("kept %q and %q", kept[0].ID, kept[1].ID)
	}
	if len(removals) != 1 {
		t.Fatalf("got %d removals, want 1", len(removals))
	}
	rm := removals[0]
	if rm.ID != "arxiv:2301.00001" || rm.PublishedID != "doi:10.1234/a" {
		t.Errorf("removal %+v", rm)
	}
	if rm.Overlap != 8 {
		t.Errorf("got overlap %d, want 8", rm.Overlap)
	}
}

func TestRemoveArxivDuplicatesBelowThreshold(t *testing.T) {
	// only five consecutive words shared, one below the default
	citations := []manubot.Citation{
		published("doi:10.1234/a", "Deep Learning for Graph Neural Machines"),
		preprint("arxiv:2301.00001", "Deep Learning for Graph Neural Networks"),
	}
	kept, removals := RemoveArxivDuplicates(citations, 0)
	if len(kept) != 2 {
		t.Errorf("got %d kept, want 2", len(kept))
	}
	if len(removals) != 0 {
		t.Errorf("got removals %+v, want none", removals)
	}
	// lowering the threshold catches it
	kept, removals = RemoveArxivDuplicates(citations, 5)
	if len(kept) != 1 || len(removals) != 1 {
		t.Errorf("got %d kept, %d removals", len(kept), len(removals))
	}
}

func TestRemoveArxivDuplicatesKeepsUntitled(t *testing.T) {
	citations := []manubot.Citation{
		published("doi:10.1234/a", "Deep Learning for Graph Neural Networks"),
		preprint("arxiv:2301.00001", ""),
	}
	kept, removals := RemoveArxivDuplicates(citations, 1)
	if len(kept) != 2 || len(removals) != 0 {
		t.Errorf("untitled preprint should be kept, got %d kept, %d removals", len(kept), len(removals))
	}
}

func TestRemoveArxivDuplicatesVenueFallback(t *testing.T) {
	// no explicit flag set, venue label alone marks the preprint
	citations := []manubot.Citation{
		published("doi:10.1234/a", "Deep Learning for Graph Neural Networks at Scale"),
		{ID: "arxiv:2301.00001", Title: "Deep Learning for Graph Neural Networks at Scale", Venue: "CoRR"},
	}
	kept, removals := RemoveArxivDuplicates(citations, 6)
	if len(kept) != 1 || len(removals) != 1 {
		t.Errorf("got %d kept, %d removals", len(kept), len(removals))
	}
}

func TestRemoveArxivDuplicatesFirstMatchWins(t *testing.T) {
	citations := []manubot.Citation{
		published("doi:10.1234/a", "Deep Learning for Graph Neural Networks at Scale"),
		published("doi:10.1234/b", "Deep Learning for Graph Neural Networks at Scale Revisited"),
		preprint("arxiv:2301.00001", "Deep Learning for Graph Neural Networks at Scale"),
	}
	_, removals := RemoveArxivDuplicates(citations, 6)
	if len(removals) != 1 {
		t.Fatalf("got %d removals, want 1", len(removals))
	}
	if removals[0].PublishedID != "doi:10.1234/a" {
		t.Errorf("got published id %q, want the first match", removals[0].PublishedID)
	}
}
