// Package manubot contains the target citation schema: one record per
// bibliographic entry, keyed by "family:value" (e.g. "doi:10.1234/x"),
// ready for serialization into a static-site citation list.
package manubot

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Family is the scheme of a persistent identifier. The set is closed;
// the resolver and the validators dispatch on it exhaustively.
type Family string

const (
	FamilyDOI   Family = "doi"
	FamilyPMID  Family = "pmid"
	FamilyPMCID Family = "pmcid"
	FamilyArxiv Family = "arxiv"
	FamilyISBN  Family = "isbn"
	FamilyURL   Family = "url"
	FamilyRaw   Family = "raw" // fallback, keyed by the BibTeX key
)

// ParseFamily maps a configuration string to a Family. Unknown names
// are reported, so a priority list can skip over them.
func ParseFamily(s string) (Family, bool) {
	switch Family(strings.ToLower(strings.TrimSpace(s))) {
	case FamilyDOI:
		return FamilyDOI, true
	case FamilyPMID:
		return FamilyPMID, true
	case FamilyPMCID:
		return FamilyPMCID, true
	case FamilyArxiv:
		return FamilyArxiv, true
	case FamilyISBN:
		return FamilyISBN, true
	case FamilyURL:
		return FamilyURL, true
	case FamilyRaw:
		return FamilyRaw, true
	}
	return "", false
}

// Identifier is a validated (family, canonical value) pair.
type Identifier struct {
	Family Family `json:"family"`
	Value  string `json:"value"`
}

// ErrInvalidID signals a citation id without its colon separator. The
// resolver contract makes this unreachable; it is still checked, since
// a violation means resolver and builder disagree.
var ErrInvalidID = errors.New("citation id must contain a colon separator")

// Citation is a single normalized citation record.
type Citation struct {
	ID      string   `json:"id"` // "{family}:{value}"
	Family  Family   `json:"type"`
	Value   string   `json:"value"`
	Title   string   `json:"title,omitempty"`
	Authors []string `json:"authors,omitempty"`
	// Venue holds the journal name, or the conference/book title when
	// no journal field exists. Serialized as "publisher" downstream.
	Venue     string `json:"venue,omitempty"`
	Year      int64  `json:"year,omitempty"`
	Date      string `json:"date,omitempty"` // YYYY-MM-DD
	Volume    string `json:"volume,omitempty"`
	Issue     string `json:"issue,omitempty"`
	Pages     string `json:"pages,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Link      string `json:"link,omitempty"`
	// Preprint marks entries sourced from a preprint repository.
	// Tracked explicitly instead of inferring it from the venue label
	// after the journal/publisher rename.
	Preprint bool `json:"preprint,omitempty"`
	// Provenance of the original BibTeX entry.
	OriginalKey string `json:"original_key,omitempty"`
	BibtexType  string `json:"bibtex_type,omitempty"`
}

// NewCitation builds a citation id from an identifier and checks the
// separator invariant.
func NewCitation(id Identifier) (Citation, error) {
	c := Citation{
		ID:     fmt.Sprintf("%s:%s", id.Family, id.Value),
		Family: id.Family,
		Value:  id.Value,
	}
	if strings.Count(c.ID, ":") == 0 {
		return Citation{}, ErrInvalidID
	}
	return c, nil
}

// Result is the per-entry conversion outcome. An entry either succeeds
// with exactly one citation or fails with at least one error; warnings
// (missing but nonfatal fields) may accompany either.
type Result struct {
	OriginalKey string    `json:"original_key"`
	Success     bool      `json:"success"`
	Citation    *Citation `json:"citation,omitempty"`
	Errors      []string  `json:"errors,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// CitationID returns the citation id, or the empty string for failures.
func (r *Result) CitationID() string {
	if r.Citation == nil {
		return ""
	}
	return r.Citation.ID
}

// Batch aggregates the outcomes of one conversion run.
type Batch struct {
	RunID      string        `json:"run_id"`
	InputFiles []string      `json:"input_files,omitempty"`
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Results    []Result      `json:"results"`
	Elapsed    time.Duration `json:"elapsed"`
	Timestamp  time.Time     `json:"timestamp"`
}

// SuccessRate as a percentage, zero for an empty batch.
func (b *Batch) SuccessRate() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Successful) / float64(b.Total) * 100
}

// SuccessfulCitations collects the citations of all successful results,
// in input order.
func (b *Batch) SuccessfulCitations() []Citation {
	var citations []Citation
	for _, r := range b.Results {
		if r.Success && r.Citation != nil {
			citations = append(citations, *r.Citation)
		}
	}
	return citations
}
