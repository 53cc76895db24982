// Package bibmano turns BibTeX bibliographies into manubot-style citation
// lists, resolving each entry to its best persistent identifier.
package bibmano

const (
	AppName = "bibmano"
	Version = "0.2.1"
)
