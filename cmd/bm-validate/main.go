// CLI to validate an emitted citation list against the shape the
// website pipeline expects.
//
// $ bm-validate citations.yaml
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bibtools/bibmano"
	"github.com/bibtools/bibmano/render"
	log "github.com/sirupsen/logrus"
)

var (
	quiet       = flag.Bool("q", false, "errors only, no warnings")
	showVersion = flag.Bool("version", false, "show version")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "bm-validate checks a citation YAML file\n\nUsage:\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if *showVersion {
		fmt.Println(bibmano.Version)
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		log.Fatal("need exactly one citations file")
	}
	f, err := os.Open(flag.Arg(0))
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
	if !*quiet {
		for _, w := range report.Warnings {
			log.Warn(w)
		}
	}
	for family, count := range report.TypeCounts {
		log.Infof("%s: %d", family, count)
	}
	if !report.Valid {
		log.Fatalf("invalid: %d citations, %d errors", report.CitationCount, len(report.Errors))
	}
	log.Infof("valid: %d citations", report.CitationCount)
}
