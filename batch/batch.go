// Package batch drives a whole conversion run: every input entry maps
// to exactly one outcome, duplicates are removed batch-wide, and the
// surviving citations come out in a deterministic order.
package batch

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bibtools/bibmano/convert"
	"github.com/bibtools/bibmano/dedup"
	"github.com/bibtools/bibmano/schema/bibtex"
	"github.com/bibtools/bibmano/schema/manubot"
	"github.com/google/uuid"
)

// Options configure one run.
type Options struct {
	// Priority is the ordered identifier family preference; nil means
	// convert.DefaultPriority.
	Priority []manubot.Family
	// MinOverlap is the duplicate-detection threshold; zero means
	// dedup.DefaultMinOverlap.
	MinOverlap int
}

func (o *Options) priority() []manubot.Family {
	if len(o.Priority) == 0 {
		return convert.DefaultPriority
	}
	return o.Priority
}

// Run converts a sequence of parsed entries into a batch result. One
// bad record never aborts the batch; it just becomes a failed outcome
// among the others.
func Run(entries []bibtex.Entry, opts Options) *manubot.Batch {
	started := time.Now()
	b := &manubot.Batch{
		RunID:     uuid.New().String(),
		Timestamp: started,
	}
	priority := opts.priority()
	for i := range entries {
		b.Results = append(b.Results, convert.Entry(&entries[i], priority))
	}
	finish(b, started)
	return b
}

// FailedSource represents an input source that could not be parsed at
// all, surfaced as a synthetic failed outcome keyed by the source name.
func FailedSource(source string, err error) manubot.Result {
	return manubot.Result{
		OriginalKey: fmt.Sprintf("FILE:%s", source),
		Errors:      []string{fmt.Sprintf("failed to parse file: %v", err)},
	}
}

// RunResults builds a batch from pre-assembled outcomes, for callers
// that mix converted entries with synthetic source failures.
func RunResults(results []manubot.Result, inputFiles []string, started time.Time) *manubot.Batch {
	b := &manubot.Batch{
		RunID:      uuid.New().String(),
		InputFiles: inputFiles,
		Results:    results,
		Timestamp:  started,
	}
	finish(b, started)
	return b
}

func finish(b *manubot.Batch, started time.Time) {
	b.Total = len(b.Results)
	for _, r := range b.Results {
		if r.Success {
			b.Successful++
		}
	}
	b.Failed = b.Total - b.Successful
	b.Elapsed = time.Since(started)
}

// Emit extracts the successful citations of a batch, removes preprint
// duplicates and sorts the survivors: newest year first (absent year
// sorts last), then ascending lower-cased title. The sort is stable, so
// entries missing both keys keep their input order.
func Emit(b *manubot.Batch, minOverlap int) ([]manubot.Citation, []dedup.Removal) {
	citations, removals := dedup.RemoveArxivDuplicates(b.SuccessfulCitations(), minOverlap)
	Sort(citations)
	return citations, removals
}

// Sort orders citations by descending year, then ascending title.
func Sort(citations []manubot.Citation) {
	sort.SliceStable(citations, func(i, j int) bool {
		if citations[i].Year != citations[j].Year {
			return citations[i].Year > citations[j].Year
		}
		return strings.ToLower(citations[i].Title) < strings.ToLower(citations[j].Title)
	})
}
