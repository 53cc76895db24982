package bibtex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	input := `
@article{doe2023,
    title = {A {Test} Paper},
    author = {Doe, John and Smith, Jane},
    journal = {Nature},
    year = {2023},
    doi = {10.1234/example}
}

@inproceedings{smith2022,
    title = "Quoted Title",
    booktitle = "Proc. of Things",
    year = 2022,
}
`
	entries, err := ParseString(input)
	if err != nil {
		t.Fatal(err)
	}
	want := []Entry{
		{
			Key:  "doe2023",
			Type: "article",
			Fields: map[string]string{
				"title":   "A {Test} Paper",
				"author":  "Doe, John and Smith, Jane",
				"journal": "Nature",
				"year":    "2023",
				"doi":     "10.1234/example",
			},
		},
		{
			Key:  "smith2022",
			Type: "inproceedings",
			Fields: map[string]string{
				"title":     "Quoted Title",
				"booktitle": "Proc. of Things",
				"year":      "2022",
			},
		},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSkipsDirectives(t *testing.T) {
	input := `
@comment{anything goes here, even = signs}
@string{nat = "Nature"}
@preamble{"\newcommand{\x}{y}"}
@misc{only2020, title = {The Only Entry}}
`
	entries, err := ParseString(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Key != "only2020" {
		t.Errorf("got entries %+v, want just only2020", entries)
	}
}

func TestParseParenEntry(t *testing.T) {
	entries, err := ParseString(`@article(key1, title = {Paren Style})`)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Key != "key1" || entries[0].Field("title") != "Paren Style" {
		t.Errorf("got %+v", entries)
	}
}

func TestParseConcatenation(t *testing.T) {
	entries, err := ParseString(`@misc{k, title = "part one " # "part two"}`)
	if err != nil {
		t.Fatal(err)
	}
	if got := entries[0].Field("title"); got != "part one part two" {
		t.Errorf("got %q", got)
	}
}

func TestParseNestedBraces(t *testing.T) {
	entries, err := ParseString(`@misc{k, title = {Outer {Inner {Deep}} End}}`)
	if err != nil {
		t.Fatal(err)
	}
	if got := entries[0].Field("title"); got != "Outer {Inner {Deep}} End" {
		t.Errorf("got %q", got)
	}
}

func TestParseFreeTextBetweenEntries(t *testing.T) {
	input := `
This bibliography was exported on a Tuesday.

@misc{k, year = 1999}
`
	entries, err := ParseString(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Field("year") != "1999" {
		t.Errorf("got %+v", entries)
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		about string
		input string
	}{
		{"unterminated entry", `@article{key, title = {x}`},
		{"unterminated braced value", `@article{key, title = {never closed`},
		{"missing equals", `@article{key, title {x}}`},
		{"missing type", `@{key, title = {x}}`},
		{"unterminated quoted value", `@article{key, title = "never closed}`},
	}
	for _, tc := range testCases {
		t.Run(tc.about, func(t *testing.T) {
			if _, err := ParseString(tc.input); err == nil {
				t.Error("expected a parse error")
			}
		})
	}
}

func TestEntryField(t *testing.T) {
	e := Entry{Fields: map[string]string{"title": "T", "eprint": "2301.12345"}}
	if got := e.Field("TITLE"); got != "T" {
		t.Errorf("case-insensitive lookup failed, got %q", got)
	}
	if got := e.Field("missing"); got != "" {
		t.Errorf("got %q for a missing field", got)
	}
	if got := e.Arxiv(); got != "2301.12345" {
		t.Errorf("eprint fallback failed, got %q", got)
	}
	e.Fields["arxiv"] = "2401.99999"
	if got := e.Arxiv(); got != "2401.99999" {
		t.Errorf("arxiv field should win over eprint, got %q", got)
	}
}

func TestCleanField(t *testing.T) {
	testCases := []struct {
		raw    string
		result string
	}{
		{"", ""},
		{"Plain Title", "Plain Title"},
		{"{Protected Title}", "Protected Title"},
		{"A {Test} Paper", "A Test Paper"},
		{"The {{DNA}} Story", "The DNA Story"},
		{`\textit{Drosophila} genetics`, "*Drosophila* genetics"},
		{`\emph{in vivo} assay`, "*in vivo* assay"},
		{`\textbf{Bold} claim`, "**Bold** claim"},
		{`M\"uller and Garc\'ia`, "Müller and García"},
		{`Fran\c{c}ois`, "François"},
		{`Rock \& Roll, 100\% true`, "Rock & Roll, 100% true"},
		{"  too   many\n spaces ", "too many spaces"},
	}
	for _, tc := range testCases {
		if got := CleanField(tc.raw); got != tc.result {
			t.Errorf("CleanField(%q): got %q, want %q", tc.raw, got, tc.result)
		}
	}
}
