// CLI to turn a DBLP author profile into a citation list, end to end:
// fetch the profile's BibTeX export, convert, dedupe, emit.
//
// $ bm-dblp -o citations.yaml https://dblp.org/pid/154/4313.html
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bibtools/bibmano"
	"github.com/bibtools/bibmano/batch"
	"github.com/bibtools/bibmano/config"
	"github.com/bibtools/bibmano/convert"
	"github.com/bibtools/bibmano/feeds"
	"github.com/bibtools/bibmano/render"
	"github.com/bibtools/bibmano/schema/bibtex"
	"github.com/bibtools/bibmano/schema/manubot"
	log "github.com/sirupsen/logrus"
)

var (
	outputPath  = flag.String("o", "", "output path (default: dblp_<pid>_citations.yaml)")
	configPath  = flag.String("c", "", "config file (default: XDG config dir)")
	format      = flag.String("f", "yaml", "output format: yaml or json")
	verbose     = flag.Bool("verbose", false, "profile info and per-entry details")
	showVersion = flag.Bool("version", false, "show version")
)

var help = `bm-dblp converts a DBLP author profile into a citation list 🧾

Example:

    $ bm-dblp https://dblp.org/pid/154/4313.html

Usage:

`

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, help)
		flag.PrintDefaults()
	}
	flag.Parse()
	if *showVersion {
		fmt.Println(bibmano.Version)
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		log.Fatal("need exactly one dblp profile url")
	}
	profileURL, err := feeds.ValidateProfileURL(flag.Arg(0))
	if err != nil {
		log.Fatalf("%s: %v", flag.Arg(0), err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	fetcher, err := feeds.NewDBLPFetcher()
	if err != nil {
		log.Fatal(err)
	}
	if *verbose {
		if info, err := fetcher.FetchProfileInfo(profileURL); err == nil {
			log.WithFields(log.Fields{
				"name":         info.Name,
				"pid":          info.PID,
				"publications": info.PublicationCount,
			}).Info("profile")
		} else {
			log.Warnf("profile info: %v", err)
		}
	}
	content, err := fetcher.FetchBibTeX(profileURL)
	if err != nil {
		log.Fatal(err)
	}
	started := time.Now()
	var results []manubot.Result
	entries, err := bibtex.ParseString(content)
	if err != nil {
		results = append(results, batch.FailedSource(profileURL, err))
	}
	priority := cfg.Priority()
	for i := range entries {
		results = append(results, convert.Entry(&entries[i], priority))
	}
	b := batch.RunResults(results, []string{profileURL}, started)
	citations, removals := batch.Emit(b, cfg.Dedup.MinOverlap)
	for _, rm := range removals {
		log.WithFields(log.Fields{
			"id":        rm.ID,
			"published": rm.PublishedID,
			"overlap":   rm.Overlap,
		}).Info("removed arxiv duplicate")
	}
	path := *outputPath
	if path == "" {
		path = fmt.Sprintf("dblp_%s_citations.yaml", strings.ReplaceAll(feeds.PID(profileURL), "/", "_"))
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := write(f, citations, cfg.Output.IncludeMetadata); err != nil {
		log.Fatal(err)
	}
	log.WithFields(log.Fields{
		"total":      b.Total,
		"successful": b.Successful,
		"failed":     b.Failed,
		"removed":    len(removals),
		"output":     path,
		"elapsed":    b.Elapsed.Round(time.Millisecond),
	}).Info("done")
}

func write(w io.Writer, citations []manubot.Citation, includeMetadata bool) error {
	switch *format {
	case "json":
		return render.WriteJSON(w, citations, includeMetadata)
	case "yaml":
		return render.WriteYAML(w, citations, includeMetadata)
	default:
		return fmt.Errorf("unknown format: %s", *format)
	}
}
