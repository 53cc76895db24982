// Package feeds retrieves bibliographies from the web, currently DBLP
// author profiles (https://dblp.org/pid/...), with an on-disk cache so
// repeated runs stay polite to the upstream servers.
package feeds

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/adrg/xdg"
	"github.com/bibtools/bibmano"
	"github.com/jinzhu/now"
	"github.com/klauspost/compress/zstd"
	"github.com/sethgrid/pester"
)

// ErrNotDBLP signals a URL outside dblp.org (or the Trier mirror).
var ErrNotDBLP = errors.New("not a dblp profile url")

var pidRegex = regexp.MustCompile(`/pid/([^/]+/[^/.]+)`)

// Doer abstracts https://pkg.go.dev/net/http#Client.Do.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// DBLPFetcher downloads the BibTeX export of a DBLP author profile.
// Exports are cached compressed on disk; a cache entry written today is
// served without touching the network.
type DBLPFetcher struct {
	Client    Doer
	UserAgent string
	CacheDir  string
	Delay     time.Duration // pause before uncached downloads
}

// NewDBLPFetcher returns a fetcher with a retrying HTTP client and a
// cache directory under the XDG cache home.
func NewDBLPFetcher() (*DBLPFetcher, error) {
	cacheDir, err := xdg.CacheFile(filepath.Join(bibmano.AppName, "dblp"))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}
	client := pester.New()
	client.MaxRetries = 3
	client.Backoff = pester.ExponentialBackoff
	return &DBLPFetcher{
		Client:    client,
		UserAgent: fmt.Sprintf("%s/%s (bibliography tool)", bibmano.AppName, bibmano.Version),
		CacheDir:  cacheDir,
		Delay:     time.Second,
	}, nil
}

// ValidateProfileURL checks and normalizes a DBLP profile URL: scheme
// defaults to https, bare /pid/X/Y paths get their .html suffix.
func ValidateProfileURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Host != "dblp.org" && u.Host != "dblp.uni-trier.de" {
		return "", ErrNotDBLP
	}
	if !pidRegex.MatchString(u.Path) {
		return "", ErrNotDBLP
	}
	if !strings.HasSuffix(u.Path, ".html") && !strings.HasSuffix(u.Path, ".bib") {
		u.Path += ".html"
	}
	return u.String(), nil
}

// PID extracts the person id from a profile URL, e.g. "154/4313".
func PID(profileURL string) string {
	m := pidRegex.FindStringSubmatch(profileURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// BibURL constructs the BibTeX export URL for a profile.
func BibURL(profileURL string) (string, error) {
	pid := PID(profileURL)
	if pid == "" {
		return "", ErrNotDBLP
	}
	return fmt.Sprintf("https://dblp.org/pid/%s.bib", pid), nil
}

// ProfileInfo is display-only metadata scraped from the profile page.
type ProfileInfo struct {
	URL              string
	PID              string
	Name             string
	PublicationCount int
}

func (f *DBLPFetcher) get(rawURL string) (*http.Response, error) {
	req, err := http.NewRequest("GET", rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.UserAgent)
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}
	return resp, nil
}

// FetchProfileInfo scrapes name and approximate publication count from
// the profile page. Informational only; errors here should not stop a
// conversion run.
func (f *DBLPFetcher) FetchProfileInfo(profileURL string) (*ProfileInfo, error) {
	info := &ProfileInfo{URL: profileURL, PID: PID(profileURL)}
	resp, err := f.get(profileURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	// dblp page titles read "Author Name - DBLP"
	if i := strings.Index(title, " - "); i != -1 {
		info.Name = strings.TrimSpace(title[:i])
	} else {
		info.Name = title
	}
	info.PublicationCount = doc.Find("li.entry").Length()
	return info, nil
}

var entryStartRegex = regexp.MustCompile(`@\w+\s*\{`)

// FetchBibTeX downloads the profile's BibTeX export, serving today's
// cached copy when available.
func (f *DBLPFetcher) FetchBibTeX(profileURL string) (string, error) {
	bibURL, err := BibURL(profileURL)
	if err != nil {
		return "", err
	}
	cachePath := filepath.Join(f.CacheDir, strings.ReplaceAll(PID(profileURL), "/", "_")+".bib.zst")
	if b, err := f.readCache(cachePath); err == nil && b != nil {
		return string(b), nil
	}
	if f.Delay > 0 {
		time.Sleep(f.Delay)
	}
	resp, err := f.get(bibURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	content := strings.TrimSpace(string(b))
	if content == "" {
		return "", fmt.Errorf("empty bibtex export: %s", bibURL)
	}
	if !entryStartRegex.MatchString(content) {
		return "", fmt.Errorf("no bibtex entries in export: %s", bibURL)
	}
	if err := f.writeCache(cachePath, []byte(content)); err != nil {
		return "", err
	}
	return content, nil
}

// readCache returns the cached export when it was written today, nil
// otherwise.
func (f *DBLPFetcher) readCache(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if info.ModTime().Before(now.With(time.Now()).BeginningOfDay()) {
		return nil, nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	dec, err := zstd.NewReader(fh)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

func (f *DBLPFetcher) writeCache(path string, b []byte) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(fh)
	if err != nil {
		fh.Close()
		return err
	}
	if _, err := enc.Write(b); err != nil {
		enc.Close()
		fh.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
