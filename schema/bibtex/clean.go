package bibtex

import (
	"regexp"
	"strings"
)

var (
	wsRegex          = regexp.MustCompile(`\s+`)
	doubleBraceRegex = regexp.MustCompile(`\{\{([^}]+)\}\}`)
	braceRegex       = regexp.MustCompile(`\{([^}]+)\}`)
	emphRegex        = regexp.MustCompile(`\\(?:textit|emph)\{([^}]+)\}`)
	boldRegex        = regexp.MustCompile(`\\textbf\{([^}]+)\}`)
)

// latexReplacer handles the accents and escapes that commonly show up
// in .bib files exported from reference managers.
var latexReplacer = strings.NewReplacer(
	`\"a`, "ä", `\"o`, "ö", `\"u`, "ü",
	`\'a`, "á", `\'e`, "é", `\'i`, "í", `\'o`, "ó", `\'u`, "ú",
	"\\`a", "à", "\\`e", "è", "\\`i", "ì", "\\`o", "ò", "\\`u", "ù",
	`\^a`, "â", `\^e`, "ê", `\^i`, "î", `\^o`, "ô", `\^u`, "û",
	`\~n`, "ñ", `\~a`, "ã", `\~o`, "õ",
	`\c{c}`, "ç",
	`\&`, "&", `\%`, "%", `\$`, "$", `\#`, "#", `\_`, "_",
)

// CleanField strips braces and common LaTeX markup from a field value
// and collapses whitespace.
func CleanField(field string) string {
	if field == "" {
		return ""
	}
	field = strings.TrimSpace(field)
	if strings.HasPrefix(field, "{") && strings.HasSuffix(field, "}") {
		field = field[1 : len(field)-1]
	}
	field = emphRegex.ReplaceAllString(field, "*$1*")
	field = boldRegex.ReplaceAllString(field, "**$1**")
	// accents before brace stripping, \c{c} needs its braces intact
	field = latexReplacer.Replace(field)
	field = doubleBraceRegex.ReplaceAllString(field, "$1")
	field = braceRegex.ReplaceAllString(field, "$1")
	field = wsRegex.ReplaceAllString(field, " ")
	return strings.TrimSpace(field)
}
