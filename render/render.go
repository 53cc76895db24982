// Package render serializes the final citation sequence for the static
// site: a YAML list (the site's citation data file) or JSON lines, and
// a validator for the emitted shape.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bibtools/bibmano/schema/manubot"
	"github.com/segmentio/encoding/json"
	"gopkg.in/yaml.v3"
)

// doc is the wire shape the site consumes. Venue is published under the
// "publisher" key and the raw URL under "link"; field order is fixed.
type doc struct {
	ID        string   `yaml:"id" json:"id"`
	Type      string   `yaml:"type" json:"type"`
	Title     string   `yaml:"title,omitempty" json:"title,omitempty"`
	Authors   []string `yaml:"authors,omitempty" json:"authors,omitempty"`
	Publisher string   `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	Year      int64    `yaml:"year,omitempty" json:"year,omitempty"`
	Date      string   `yaml:"date,omitempty" json:"date,omitempty"`
	Link      string   `yaml:"link,omitempty" json:"link,omitempty"`
}

func citationDoc(c *manubot.Citation, includeMetadata bool) doc {
	d := doc{ID: c.ID, Type: string(c.Family)}
	if !includeMetadata {
		return d
	}
	d.Title = c.Title
	d.Authors = c.Authors
	d.Publisher = c.Venue
	d.Year = c.Year
	d.Date = c.Date
	d.Link = c.Link
	return d
}

// WriteYAML renders the citations as a YAML list, one blank line
// between entries for readability.
func WriteYAML(w io.Writer, citations []manubot.Citation, includeMetadata bool) error {
	for i := range citations {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(citationDoc(&citations[i], includeMetadata)); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		for j, line := range lines {
			prefix := "  "
			if j == 0 {
				prefix = "- "
			}
			if _, err := fmt.Fprintf(w, "%s%s\n", prefix, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteJSON renders the citations as JSON lines.
func WriteJSON(w io.Writer, citations []manubot.Citation, includeMetadata bool) error {
	enc := json.NewEncoder(w)
	for i := range citations {
		if err := enc.Encode(citationDoc(&citations[i], includeMetadata)); err != nil {
			return err
		}
	}
	return nil
}

// Report is the outcome of validating an emitted citation list.
type Report struct {
	Valid         bool           `json:"valid"`
	CitationCount int            `json:"citation_count"`
	TypeCounts    map[string]int `json:"citation_types,omitempty"`
	Errors        []string       `json:"errors,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// Validate checks a previously emitted YAML citation list: every entry
// needs a non-blank id with its family separator and a non-blank type;
// missing title, authors or year are warnings only. Both the plain list
// shape and the legacy {citations: [...]} wrapper parse.
func Validate(r io.Reader) (*Report, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var docs []doc
	if err := yaml.Unmarshal(b, &docs); err != nil {
		var wrapper struct {
			Citations []doc `yaml:"citations"`
		}
		if werr := yaml.Unmarshal(b, &wrapper); werr != nil {
			return nil, fmt.Errorf("render: not a citation list: %w", err)
		}
		docs = wrapper.Citations
	}
	report := &Report{Valid: true, CitationCount: len(docs), TypeCounts: make(map[string]int)}
	for i, d := range docs {
		n := i + 1
		if d.Type != "" {
			report.TypeCounts[d.Type]++
		} else {
			report.Errors = append(report.Errors, fmt.Sprintf("citation %d: missing type", n))
			report.Valid = false
		}
		switch {
		case strings.TrimSpace(d.ID) == "":
			report.Errors = append(report.Errors, fmt.Sprintf("citation %d: missing id", n))
			report.Valid = false
		case !strings.Contains(d.ID, ":"):
			report.Errors = append(report.Errors, fmt.Sprintf("citation %d: invalid id %q", n, d.ID))
			report.Valid = false
		}
		if d.Title == "" {
			report.Warnings = append(report.Warnings, fmt.Sprintf("citation %d: missing title", n))
		}
		if len(d.Authors) == 0 {
			report.Warnings = append(report.Warnings, fmt.Sprintf("citation %d: missing authors", n))
		}
		if d.Year == 0 {
			report.Warnings = append(report.Warnings, fmt.Sprintf("citation %d: missing year", n))
		}
	}
	return report, nil
}
