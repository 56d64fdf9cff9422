// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package submission turns extracted dataset mentions into normalized,
// de-duplicated prediction records and writes them out as CSV and SQLite.
package submission

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// NormalizeDatasetID canonicalizes a dataset identifier. DOI forms collapse
// to the https://doi.org/ URL; other identifiers (accession numbers) pass
// through with the surrounding punctuation stripped.
func NormalizeDatasetID(id string) string {
	s := strings.Trim(id, " .,;")
	if idx := strings.Index(strings.ToLower(s), "doi.org"); idx >= 0 {
		return "https://" + s[idx:]
	}
	if strings.HasPrefix(s, "10.") {
		return "https://doi.org/" + s
	}
	return s
}

// normalizeType capitalizes a citation type: "primary" becomes "Primary".
func normalizeType(typ string) string {
	if typ == "" {
		return ""
	}
	return strings.ToUpper(typ[:1]) + strings.ToLower(typ[1:])
}

// BuildRecords converts one article's entities into prediction records with
// normalized dataset IDs and capitalized types. Row IDs are assigned later
// by Dedupe, after the full set is known.
func BuildRecords(articleID string, entities []types.Entity) []types.Record {
	var out []types.Record
	for _, e := range entities {
		id := NormalizeDatasetID(e.Text)
		if id == "" {
			continue
		}
		out = append(out, types.Record{
			ArticleID: articleID,
			DatasetID: id,
			Type:      normalizeType(string(e.Type)),
		})
	}
	return out
}

// Dedupe removes duplicate (article, dataset, type) triples, sorts the
// survivors, and assigns sequential row IDs starting at zero.
func Dedupe(records []types.Record) []types.Record {
	type key struct {
		article string
		dataset string
		typ     string
	}
	seen := make(map[key]bool)
	var out []types.Record
	for _, r := range records {
		k := key{r.ArticleID, r.DatasetID, r.Type}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ArticleID != out[j].ArticleID {
			return out[i].ArticleID < out[j].ArticleID
		}
		if out[i].DatasetID != out[j].DatasetID {
			return out[i].DatasetID < out[j].DatasetID
		}
		return out[i].Type < out[j].Type
	})
	for i := range out {
		out[i].RowID = i
	}
	return out
}

// WriteCSV writes records in submission format with a header row.
func WriteCSV(w io.Writer, records []types.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"row_id", "article_id", "dataset_id", "type"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		row := []string{strconv.Itoa(r.RowID), r.ArticleID, r.DatasetID, r.Type}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing record %d: %w", r.RowID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
