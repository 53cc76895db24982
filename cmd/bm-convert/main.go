// CLI to convert BibTeX bibliographies into a citation list for the
// website pipeline.
//
// $ bm-convert -o citations.yaml references.bib more.bib
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
	"github.com/bibtools/bibmano/render"
	"github.com/bibtools/bibmano/schema/bibtex"
	"github.com/bibtools/bibmano/schema/manubot"
	gzip "github.com/klauspost/pgzip"
	log "github.com/sirupsen/logrus"
)

var (
	outputPath  = flag.String("o", "", "output path (default: stdout)")
	configPath  = flag.String("c", "", "config file (default: XDG config dir)")
	format      = flag.String("f", "", "output format: yaml or json (default from config)")
	minOverlap  = flag.Int("m", 0, "title word overlap for duplicate removal (0 = default)")
	noMetadata  = flag.Bool("bare", false, "emit id and type only, skip metadata fields")
	doValidate  = flag.Bool("validate", false, "validate the emitted file afterwards")
	verbose     = flag.Bool("verbose", false, "per-entry conversion details")
	showVersion = flag.Bool("version", false, "show version")
)

var help = `bm-convert turns BibTeX files into a citation list 📚

Each entry is resolved to its best persistent identifier (doi, pmid,
pmcid, arxiv, isbn, url, in configurable order) and arXiv preprints
duplicating a published entry are dropped. Gzipped input works.

Examples:

    $ bm-convert references.bib
    $ bm-convert -o citations.yaml -f yaml *.bib
    $ bm-convert -f json dump.bib.gz

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
	if flag.NArg() == 0 {
		log.Fatal("missing input file")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *format == "" {
		*format = cfg.Output.Format
	}
	if *minOverlap == 0 {
		*minOverlap = cfg.Dedup.MinOverlap
	}
	var (
		started  = time.Now()
		priority = cfg.Priority()
		results  []manubot.Result
	)
	for _, path := range flag.Args() {
		entries, err := readBibFile(path)
		if err != nil {
			log.Warnf("%s: %v", path, err)
			results = append(results, batch.FailedSource(path, err))
			continue
		}
		for i := range entries {
			results = append(results, convert.Entry(&entries[i], priority))
		}
	}
	b := batch.RunResults(results, flag.Args(), started)
	if *verbose {
		for _, r := range b.Results {
			entry := log.WithField("key", r.OriginalKey)
			switch {
			case r.Success:
				entry.Infof("ok: %s", r.CitationID())
				for _, w := range r.Warnings {
					entry.Warn(w)
				}
			default:
				entry.Error(strings.Join(r.Errors, "; "))
			}
		}
	}
	citations, removals := batch.Emit(b, *minOverlap)
	for _, rm := range removals {
		log.WithFields(log.Fields{
			"id":        rm.ID,
			"published": rm.PublishedID,
			"overlap":   rm.Overlap,
		}).Info("removed arxiv duplicate")
	}
	if err := writeCitations(citations, !*noMetadata && cfg.Output.IncludeMetadata); err != nil {
		log.Fatal(err)
	}
	log.WithFields(log.Fields{
		"run":        b.RunID,
		"total":      b.Total,
		"successful": b.Successful,
		"failed":     b.Failed,
		"removed":    len(removals),
		"rate":       fmt.Sprintf("%.1f%%", b.SuccessRate()),
		"elapsed":    b.Elapsed.Round(time.Millisecond),
	}).Info("done")
	if *doValidate && *outputPath != "" && *format == "yaml" {
		f, err := os.Open(*outputPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		report, err := render.Validate(f)
		if err != nil {
			log.Fatal(err)
		}
		for _, e := range report.Errors {
			log.Error(e)
		}
		if !report.Valid {
			os.Exit(1)
		}
		log.Infof("valid: %d citations", report.CitationCount)
	}
}

// readBibFile parses a .bib file, transparently decompressing .gz.
func readBibFile(path string) ([]bibtex.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}
	return bibtex.Parse(r)
}

func writeCitations(citations []manubot.Citation, includeMetadata bool) error {
	var w io.Writer = os.Stdout
	if *outputPath != "" {
		f, err := os.Create(*outputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	switch *format {
	case "json":
		return render.WriteJSON(w, citations, includeMetadata)
	case "yaml", "":
		return render.WriteYAML(w, citations, includeMetadata)
	default:
		return fmt.Errorf("unknown format: %s", *format)
	}
}
