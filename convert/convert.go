// Package convert turns parsed BibTeX entries into manubot citations:
// normalize the raw field map into a fixed-shape record, resolve the
// best persistent identifier under a configurable priority order, and
// build the canonical citation from both.
package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/bibtools/bibmano/extract"
	"github.com/bibtools/bibmano/schema/bibtex"
	"github.com/bibtools/bibmano/schema/manubot"
)

// DefaultPriority is the identifier preference used when no
// configuration overrides it.
var DefaultPriority = []manubot.Family{
	manubot.FamilyDOI,
	manubot.FamilyPMID,
	manubot.FamilyPMCID,
	manubot.FamilyArxiv,
	manubot.FamilyISBN,
	manubot.FamilyURL,
}

// PreprintRepository is the venue label DBLP and friends assign to
// arXiv preprints (Computing Research Repository).
const PreprintRepository = "CoRR"

// Record is the normalized view of one BibTeX entry: every downstream
// consumer reads these explicit slots, never the raw field map. Zero
// values represent absent fields.
type Record struct {
	Key       string
	Type      string
	Title     string
	Authors   []string
	Journal   string
	BookTitle string
	Year      int64 // 0 = absent
	Month     string
	Day       string
	Volume    string
	Issue     string
	Pages     string
	Publisher string

	// raw identifier candidates, unvalidated
	DOI   string
	PMID  string
	PMCID string
	Arxiv string
	ISBN  string
	URL   string
}

var authorSplitRegex = regexp.MustCompile(`(?i)\s+and\s+`)

// Normalize maps a parsed entry into a Record. Field lookups are
// case-insensitive; missing fields stay at their zero value, never an
// error.
func Normalize(entry *bibtex.Entry) Record {
	rec := Record{
		Key:       entry.Key,
		Type:      strings.ToLower(entry.Type),
		Title:     entry.Field("title"),
		Journal:   entry.Field("journal"),
		BookTitle: entry.Field("booktitle"),
		Month:     entry.Field("month"),
		Day:       entry.Field("day"),
		Volume:    entry.Field("volume"),
		Issue:     entry.Field("number"), // BibTeX "number" is the issue
		Pages:     entry.Field("pages"),
		Publisher: entry.Field("publisher"),
		DOI:       entry.Field("doi"),
		PMID:      entry.Field("pmid"),
		PMCID:     entry.Field("pmcid"),
		Arxiv:     entry.Arxiv(),
		ISBN:      entry.Field("isbn"),
		URL:       entry.Field("url"),
	}
	if v := strings.TrimSpace(entry.Field("year")); isDigits(v) {
		if year, err := strconv.ParseInt(v, 10, 64); err == nil {
			rec.Year = year
		}
	}
	if rec.Year == 0 {
		// biblatex-style free-form date field as a fallback
		if v := strings.TrimSpace(entry.Field("date")); v != "" {
			if t, err := dateparse.ParseStrict(v); err == nil {
				rec.Year = int64(t.Year())
				rec.Month = strconv.Itoa(int(t.Month()))
				rec.Day = strconv.Itoa(t.Day())
			}
		}
	}
	if v := entry.Field("author"); v != "" {
		rec.Authors = parseAuthors(v)
	}
	return rec
}

// parseAuthors splits a BibTeX author string on the "and" separator and
// flips "Last, First" segments into display order. Empty segments are
// dropped.
func parseAuthors(s string) []string {
	var authors []string
	for _, name := range authorSplitRegex.Split(s, -1) {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if i := strings.Index(name, ","); i != -1 {
			last := strings.TrimSpace(name[:i])
			first := strings.TrimSpace(name[i+1:])
			if first != "" && last != "" {
				name = first + " " + last
			}
		}
		authors = append(authors, bibtex.CleanField(name))
	}
	return authors
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// candidate returns the record's raw candidate string for a family.
func (rec *Record) candidate(family manubot.Family) string {
	switch family {
	case manubot.FamilyDOI:
		return rec.DOI
	case manubot.FamilyPMID:
		return rec.PMID
	case manubot.FamilyPMCID:
		return rec.PMCID
	case manubot.FamilyArxiv:
		return rec.Arxiv
	case manubot.FamilyISBN:
		return rec.ISBN
	case manubot.FamilyURL:
		return rec.URL
	}
	return ""
}

// Resolve walks the priority list and returns the first family whose
// raw candidate passes extraction, strict first-match semantics. With
// no match, a non-blank key falls back to the raw family; a blank key
// means no usable identifier at all.
func Resolve(rec *Record, priority []manubot.Family) (manubot.Identifier, bool) {
	for _, family := range priority {
		raw := rec.candidate(family)
		if raw == "" {
			continue
		}
		if value := extract.ForFamily(family, raw); value != "" {
			return manubot.Identifier{Family: family, Value: value}, true
		}
	}
	if key := strings.TrimSpace(rec.Key); key != "" {
		return manubot.Identifier{Family: manubot.FamilyRaw, Value: key}, true
	}
	return manubot.Identifier{}, false
}

// Build combines a normalized record and its resolved identifier into a
// citation. Pure construction; the returned warnings note absent but
// nonfatal fields (title, authors, year).
func Build(rec *Record, id manubot.Identifier) (manubot.Citation, []string, error) {
	c, err := manubot.NewCitation(id)
	if err != nil {
		return manubot.Citation{}, nil, err
	}
	c.Title = bibtex.CleanField(rec.Title)
	c.Authors = rec.Authors
	switch {
	case rec.Journal != "":
		c.Venue = bibtex.CleanField(rec.Journal)
	case rec.BookTitle != "":
		c.Venue = bibtex.CleanField(rec.BookTitle)
	}
	c.Year = rec.Year
	c.Date = PublicationDate(rec.Year, rec.Month, rec.Day)
	c.Volume = rec.Volume
	c.Issue = rec.Issue
	c.Pages = rec.Pages
	c.Publisher = bibtex.CleanField(rec.Publisher)
	c.Link = rec.URL
	c.Preprint = isPreprint(rec, id.Family)
	c.OriginalKey = rec.Key
	c.BibtexType = rec.Type

	var warnings []string
	if c.Title == "" {
		warnings = append(warnings, "no title found")
	}
	if len(c.Authors) == 0 {
		warnings = append(warnings, "no authors found")
	}
	if c.Year == 0 {
		warnings = append(warnings, "no publication year found")
	}
	return c, warnings, nil
}

// isPreprint marks arXiv-sourced records. The repository provenance is
// carried as an explicit flag on the citation, so downstream filtering
// does not have to re-infer it from the renamed venue label.
func isPreprint(rec *Record, family manubot.Family) bool {
	switch {
	case family == manubot.FamilyArxiv:
		return true
	case rec.Arxiv != "":
		return true
	case strings.EqualFold(strings.TrimSpace(rec.Journal), PreprintRepository):
		return true
	case strings.Contains(strings.ToLower(rec.Journal), "arxiv"):
		return true
	case strings.Contains(strings.ToLower(rec.URL), "arxiv.org"):
		return true
	case strings.Contains(strings.ToLower(rec.DOI), "arxiv"):
		return true
	}
	return false
}

// Entry converts one parsed BibTeX entry end to end. The result always
// carries the original key; a failed resolution yields success=false
// with at least one error message and no citation.
func Entry(entry *bibtex.Entry, priority []manubot.Family) manubot.Result {
	result := manubot.Result{OriginalKey: entry.Key}
	rec := Normalize(entry)
	id, ok := Resolve(&rec, priority)
	if !ok {
		result.Errors = append(result.Errors, "no valid identifier found")
		return result
	}
	citation, warnings, err := Build(&rec, id)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("conversion error: %v", err))
		return result
	}
	result.Success = true
	result.Citation = &citation
	result.Warnings = warnings
	return result
}
