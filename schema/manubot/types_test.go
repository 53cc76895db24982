package manubot

import "testing"

func TestParseFamily(t *testing.T) {
	testCases := []struct {
		raw    string
		family Family
		ok     bool
	}{
		{"doi", FamilyDOI, true},
		{"DOI", FamilyDOI, true},
		{" pmid ", FamilyPMID, true},
		{"arxiv", FamilyArxiv, true},
		{"raw", FamilyRaw, true},
		{"issn", "", false},
		{"", "", false},
	}
	for _, tc := range testCases {
		family, ok := ParseFamily(tc.raw)
		if family != tc.family || ok != tc.ok {
			t.Errorf("ParseFamily(%q): got (%q, %v), want (%q, %v)",
				tc.raw, family, ok, tc.family, tc.ok)
		}
	}
}

func TestNewCitation(t *testing.T) {
	c, err := NewCitation(Identifier{Family: FamilyDOI, Value: "10.1234/example"})
	if err != nil {
		t.Fatal(err)
	}
	if c.ID != "doi:10.1234/example" {
		t.Errorf("got id %q", c.ID)
	}
	// url values carry their own colons, the family prefix still leads
	c, err = NewCitation(Identifier{Family: FamilyURL, Value: "https://example.com"})
	if err != nil {
		t.Fatal(err)
	}
	if c.ID != "url:https://example.com" {
		t.Errorf("got id %q", c.ID)
	}
}

func TestSuccessRate(t *testing.T) {
	var b Batch
	if got := b.SuccessRate(); got != 0 {
		t.Errorf("empty batch: got %f, want 0", got)
	}
	b.Total, b.Successful = 4, 3
	if got := b.SuccessRate(); got != 75 {
		t.Errorf("got %f, want 75", got)
	}
}

func TestSuccessfulCitations(t *testing.T) {
	b := Batch{
		Results: []Result{
			{Success: true, Citation: &Citation{ID: "doi:10.1/a"}},
			{Success: false},
			{Success: true, Citation: &Citation{ID: "raw:b"}},
		},
	}
	citations := b.SuccessfulCitations()
	if len(citations) != 2 || citations[0].ID != "doi:10.1/a" || citations[1].ID != "raw:b" {
		t.Errorf("got %+v", citations)
	}
}
