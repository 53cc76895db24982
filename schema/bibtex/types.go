// Package bibtex contains the source schema, a parsed BibTeX entry,
// plus a small parser for .bib files.
package bibtex

import "strings"

// Entry is one parsed BibTeX record: a citation key, the entry type tag
// and a flat field mapping. Field names are stored lower-cased; values
// keep their raw text (LaTeX cleanup happens during conversion).
type Entry struct {
	Key    string            `json:"key"`
	Type   string            `json:"type"`
	Fields map[string]string `json:"fields"`
}

// Field returns a field value, looked up case-insensitively. Missing
// fields yield the empty string.
func (e *Entry) Field(name string) string {
	if e.Fields == nil {
		return ""
	}
	return e.Fields[strings.ToLower(name)]
}

// Arxiv returns the arXiv identifier candidate: the arxiv field, or the
// eprint field by BibTeX preprint convention.
func (e *Entry) Arxiv() string {
	if v := e.Field("arxiv"); v != "" {
		return v
	}
	return e.Field("eprint")
}

// DOI returns the raw doi field.
func (e *Entry) DOI() string { return e.Field("doi") }

// URL returns the raw url field.
func (e *Entry) URL() string { return e.Field("url") }
