// Package extract pulls persistent identifiers out of raw BibTeX field
// values. One function per identifier family; each applies an ordered
// list of patterns (prefixed, URL-embedded, bare) and returns the first
// candidate that also passes the family's strict validator. No match or
// malformed input yields the empty string. Precision over recall: a
// pattern hit that fails validation is dropped, never re-matched with a
// laxer rule.
package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/bibtools/bibmano/schema/manubot"
)

// rule pairs an extraction pattern with the strict validator a
// candidate must pass. Keeping the cascade as data means adding a
// pattern never touches control flow.
type rule struct {
	re       *regexp.Regexp
	validate func(string) bool
}

var (
	doiValidRegex      = regexp.MustCompile(`^10\.\d{4,}/\S+$`)
	pmidValidRegex     = regexp.MustCompile(`^\d{7,8}$`)
	pmcidValidRegex    = regexp.MustCompile(`^PMC\d+$`)
	arxivNewValidRegex = regexp.MustCompile(`^\d{4}\.\d{4,5}(?:v\d+)?$`)
	arxivOldValidRegex = regexp.MustCompile(`^[a-z-]+(?:\.[A-Z]{2})?/\d{7}$`)

	trailingPunctRegex = regexp.MustCompile(`[,;.\s]+$`)
)

func validDOI(s string) bool   { return doiValidRegex.MatchString(s) }
func validPMID(s string) bool  { return pmidValidRegex.MatchString(s) }
func validPMCID(s string) bool { return pmcidValidRegex.MatchString(s) }
func validArxiv(s string) bool {
	return arxivNewValidRegex.MatchString(s) || arxivOldValidRegex.MatchString(s)
}

var doiRules = []rule{
	{regexp.MustCompile(`(?i)doi:\s*(10\.\d+/[^\s,}]+)`), validDOI},
	{regexp.MustCompile(`(?i)https?://(?:dx\.)?doi\.org/(10\.\d+/[^\s,}]+)`), validDOI},
	{regexp.MustCompile(`^(10\.\d+/[^\s,}]+)$`), validDOI},
	{regexp.MustCompile(`(10\.\d+/[^\s,}]+)`), validDOI},
}

var pmidRules = []rule{
	{regexp.MustCompile(`(?i)pmid:?\s*(\d+)`), validPMID},
	{regexp.MustCompile(`(?i)pubmed\s*id:?\s*(\d+)`), validPMID},
	{regexp.MustCompile(`(?i)pubmed:?\s*(\d+)`), validPMID},
	{regexp.MustCompile(`^(\d{7,8})$`), validPMID},
}

var pmcidRules = []rule{
	{regexp.MustCompile(`(?i)pmcid:?\s*(PMC\d+)`), validPMCID},
	{regexp.MustCompile(`(?i)pmc:?\s*(PMC\d+)`), validPMCID},
	{regexp.MustCompile(`(?i)^(PMC\d+)$`), validPMCID},
	{regexp.MustCompile(`(?i)(PMC\d+)`), validPMCID},
}

var arxivRules = []rule{
	{regexp.MustCompile(`(?i)arxiv:\s*([\d.]+v?\d*)`), validArxiv},
	{regexp.MustCompile(`(?i)https?://arxiv\.org/abs/([a-zA-Z.-]+/\d{7}|[\d.]+v?\d*)`), validArxiv},
	{regexp.MustCompile(`^([\d.]+v?\d*)$`), validArxiv},
	{regexp.MustCompile(`(\d{4}\.\d{4,5}(?:v\d+)?)`), validArxiv},
	{regexp.MustCompile(`([a-z-]+(?:\.[A-Z]{2})?/\d{7})`), validArxiv},
}

var isbnRules = []rule{
	{regexp.MustCompile(`(?i)isbn:?\s*(978\d{10})`), validISBN},
	{regexp.MustCompile(`(?i)isbn:?\s*(\d{9}[\dX])`), validISBN},
	{regexp.MustCompile(`(978\d{10})`), validISBN},
	{regexp.MustCompile(`(\d{9}[\dX])`), validISBN},
}

// firstMatch walks a cascade and returns the first validated candidate.
func firstMatch(text string, rules []rule, canon func(string) string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	for _, r := range rules {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := trailingPunctRegex.ReplaceAllString(m[1], "")
		if canon != nil {
			candidate = canon(candidate)
		}
		if r.validate(candidate) {
			return candidate
		}
	}
	return ""
}

// DOI extracts a DOI matching 10.\d{4,}/suffix, with doi: and
// doi.org/ prefixes stripped.
func DOI(text string) string {
	return firstMatch(text, doiRules, nil)
}

// PMID extracts a 7-8 digit PubMed identifier.
func PMID(text string) string {
	return firstMatch(text, pmidRules, nil)
}

// PMCID extracts a PubMed Central identifier, canonicalized to upper
// case ("PMC" prefix plus digits).
func PMCID(text string) string {
	return firstMatch(text, pmcidRules, strings.ToUpper)
}

// ArxivID extracts a new-style (YYMM.NNNNN with optional version) or
// old-style (subject-class/YYMMNNN) arXiv identifier.
func ArxivID(text string) string {
	return firstMatch(text, arxivRules, nil)
}

// ISBN extracts an ISBN-13 (13 digits) or ISBN-10 (9 digits plus a
// digit-or-X check character). All separators are stripped first; only
// if the stripped text has the wrong length do the prefixed and
// embedded patterns run.
func ISBN(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if stripped := stripISBN(text); validISBN(stripped) {
		return stripped
	}
	return firstMatch(text, isbnRules, nil)
}

var nonISBNRegex = regexp.MustCompile(`[^\dX]`)

func stripISBN(text string) string {
	return nonISBNRegex.ReplaceAllString(strings.ToUpper(text), "")
}

func validISBN(s string) bool {
	switch len(s) {
	case 13:
		return !strings.Contains(s, "X")
	case 10:
		for _, c := range s[:9] {
			if c < '0' || c > '9' {
				return false
			}
		}
		return s[9] == 'X' || (s[9] >= '0' && s[9] <= '9')
	}
	return false
}

// URL returns the trimmed input when it is an absolute http(s) URL
// with a non-empty host.
func URL(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	u, err := url.Parse(text)
	if err != nil {
		return ""
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return text
}

// ForFamily dispatches to the extractor of the given family. The raw
// family is never extracted from field text; it only exists as the
// resolver's key fallback.
func ForFamily(family manubot.Family, text string) string {
	switch family {
	case manubot.FamilyDOI:
		return DOI(text)
	case manubot.FamilyPMID:
		return PMID(text)
	case manubot.FamilyPMCID:
		return PMCID(text)
	case manubot.FamilyArxiv:
		return ArxivID(text)
	case manubot.FamilyISBN:
		return ISBN(text)
	case manubot.FamilyURL:
		return URL(text)
	}
	return ""
}
