package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bibtools/bibmano/schema/manubot"
	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	c := Default()
	want := []string{"doi", "pmid", "pmcid", "arxiv", "isbn", "url"}
	if diff := cmp.Diff(want, c.CitationPriority); diff != "" {
		t.Errorf("priority mismatch (-want +got):\n%s", diff)
	}
	if !c.Output.IncludeMetadata {
		t.Error("metadata should be included by default")
	}
	if c.Output.Format != "yaml" {
		t.Errorf("got format %q, want yaml", c.Output.Format)
	}
	if c.Dedup.MinOverlap != 0 {
		t.Errorf("got min_overlap %d, want 0 (library default)", c.Dedup.MinOverlap)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
citation_priority: ["pmid", "doi"]
dedup:
  min_overlap: 4
output:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"pmid", "doi"}, c.CitationPriority); diff != "" {
		t.Errorf("priority mismatch (-want +got):\n%s", diff)
	}
	if c.Dedup.MinOverlap != 4 {
		t.Errorf("got min_overlap %d, want 4", c.Dedup.MinOverlap)
	}
	if c.Output.Format != "json" {
		t.Errorf("got format %q, want json", c.Output.Format)
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("missing file should yield defaults (-want +got):\n%s", diff)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("citation_priority: {broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed yaml")
	}
}

func TestPriority(t *testing.T) {
	c := Default()
	c.CitationPriority = []string{"PMID", " doi ", "not-a-family", "raw", "url"}
	got := c.Priority()
	want := []manubot.Family{manubot.FamilyPMID, manubot.FamilyDOI, manubot.FamilyURL}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("priority mismatch (-want +got):\n%s", diff)
	}
}
