package submission

import (
	"strings"
	"testing"

	"github.com/pdiddy/citation-engine/pkg/types"
)

func TestNormalizeDatasetID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "full doi url passes through",
			in:   "https://doi.org/10.5061/dryad.abc",
			want: "https://doi.org/10.5061/dryad.abc",
		},
		{
			name: "http scheme rewritten",
			in:   "http://doi.org/10.5061/dryad.abc",
			want: "https://doi.org/10.5061/dryad.abc",
		},
		{
			name: "dx prefix collapsed",
			in:   "http://dx.doi.org/10.5061/dryad.abc",
			want: "https://doi.org/10.5061/dryad.abc",
		},
		{
			name: "bare doi gets url prefix",
			in:   "10.5061/dryad.abc",
			want: "https://doi.org/10.5061/dryad.abc",
		},
		{
			name: "surrounding punctuation stripped",
			in:   " 10.5061/dryad.abc;. ",
			want: "https://doi.org/10.5061/dryad.abc",
		},
		{
			name: "accession passes through",
			in:   "GSE12345",
			want: "GSE12345",
		},
		{
			name: "accession trimmed",
			in:   "MN908947,",
			want: "MN908947",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDatasetID(tt.in); got != tt.want {
				t.Errorf("NormalizeDatasetID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildRecords(t *testing.T) {
	entities := []types.Entity{
		{Text: "10.5061/dryad.abc", Type: types.EntityPrimary},
		{Text: "GSE12345", Type: types.EntitySecondary},
		{Text: " ;. ", Type: types.EntitySecondary},
	}
	records := BuildRecords("article-1", entities)

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (empty ID dropped): %+v", len(records), records)
	}
	if records[0].DatasetID != "https://doi.org/10.5061/dryad.abc" {
		t.Errorf("records[0].DatasetID = %q", records[0].DatasetID)
	}
	if records[0].Type != "Primary" {
		t.Errorf("records[0].Type = %q, want Primary", records[0].Type)
	}
	if records[1].Type != "Secondary" {
		t.Errorf("records[1].Type = %q, want Secondary", records[1].Type)
	}
	if records[0].ArticleID != "article-1" {
		t.Errorf("records[0].ArticleID = %q", records[0].ArticleID)
	}
}

func TestDedupe(t *testing.T) {
	records := []types.Record{
		{ArticleID: "b", DatasetID: "GSE2", Type: "Secondary"},
		{ArticleID: "a", DatasetID: "GSE1", Type: "Primary"},
		{ArticleID: "b", DatasetID: "GSE2", Type: "Secondary"},
		{ArticleID: "a", DatasetID: "GSE1", Type: "Secondary"},
	}
	out := Dedupe(records)

	if len(out) != 3 {
		t.Fatalf("got %d records, want 3: %+v", len(out), out)
	}
	// Sorted by article, dataset, type with sequential row IDs.
	wantOrder := []string{"Primary", "Secondary", "Secondary"}
	for i, r := range out {
		if r.RowID != i {
			t.Errorf("record[%d].RowID = %d, want %d", i, r.RowID, i)
		}
		if r.Type != wantOrder[i] {
			t.Errorf("record[%d].Type = %q, want %q", i, r.Type, wantOrder[i])
		}
	}
	if out[0].ArticleID != "a" || out[2].ArticleID != "b" {
		t.Errorf("records not sorted by article: %+v", out)
	}
}

func TestWriteCSV(t *testing.T) {
	records := []types.Record{
		{RowID: 0, ArticleID: "a1", DatasetID: "https://doi.org/10.1/x", Type: "Primary"},
		{RowID: 1, ArticleID: "a2", DatasetID: "GSE99", Type: "Secondary"},
	}
	var buf strings.Builder
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if lines[0] != "row_id,article_id,dataset_id,type" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "0,a1,https://doi.org/10.1/x,Primary" {
		t.Errorf("row[0] = %q", lines[1])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf strings.Builder
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "row_id,article_id,dataset_id,type" {
		t.Errorf("empty CSV = %q, want header only", got)
	}
}
