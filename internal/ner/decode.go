// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ner decodes token-level BIO label sequences into character-level
// dataset mention entities.
package ner

import (
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Label IDs in the fixed BIO scheme. Position is the model's class index.
const (
	LabelOutside = iota
	LabelBeginPrimary
	LabelInsidePrimary
	LabelBeginSecondary
	LabelInsideSecondary
)

// labelNames maps a label ID to its scheme name. Unknown IDs map to "O".
var labelNames = map[int]string{
	LabelOutside:         "O",
	LabelBeginPrimary:    "B-primary",
	LabelInsidePrimary:   "I-primary",
	LabelBeginSecondary:  "B-secondary",
	LabelInsideSecondary: "I-secondary",
}

// LabelName returns the scheme name for a label ID, "O" for unknown IDs.
func LabelName(id int) string {
	if name, ok := labelNames[id]; ok {
		return name
	}
	return "O"
}

// entityTypeOf returns the entity type a non-outside label votes for.
func entityTypeOf(id int) types.EntityType {
	if id == LabelBeginPrimary || id == LabelInsidePrimary {
		return types.EntityPrimary
	}
	return types.EntitySecondary
}

// Offset is a token's character span within its sentence. A (0, 0) offset
// is padding emitted by the tokenizer for special tokens.
type Offset struct {
	Start int
	End   int
}

// Prediction is one token's classification.
type Prediction struct {
	Start   int
	End     int
	LabelID int
}

// Oracle is a token classifier: it tokenizes a sentence and labels each
// token. Implementations typically wrap an inference service.
type Oracle interface {
	Classify(sentence string) ([]Prediction, error)
}

// Decode groups a token label sequence into entities. Labels beyond the
// offset list are ignored; padding offsets neither start, extend, nor break
// a run. A run is a maximal stretch of non-outside tokens; its type is the
// majority vote over the run's labels, first seen winning ties, and its
// span stretches from the first token's start to the last token's end,
// clamped to the text.
func Decode(text string, offsets []Offset, labels []int) []types.Entity {
	if len(labels) > len(offsets) {
		labels = labels[:len(offsets)]
	}
	var (
		out   []types.Entity
		run   []int
		start int
		end   int
	)
	flush := func() {
		if len(run) == 0 {
			return
		}
		out = append(out, makeEntity(text, run, start, end))
		run = nil
	}
	for i, id := range labels {
		off := offsets[i]
		if off.Start == 0 && off.End == 0 {
			continue
		}
		if id == LabelOutside {
			flush()
			continue
		}
		if len(run) == 0 {
			start = off.Start
		}
		run = append(run, id)
		end = off.End
	}
	flush()
	return out
}

// makeEntity votes the run's type and slices the text, clamping the span
// to the text bounds.
func makeEntity(text string, run []int, start, end int) types.Entity {
	votes := make(map[types.EntityType]int)
	order := make([]types.EntityType, 0, 2)
	for _, id := range run {
		typ := entityTypeOf(id)
		if _, seen := votes[typ]; !seen {
			order = append(order, typ)
		}
		votes[typ]++
	}
	winner := order[0]
	for _, typ := range order[1:] {
		if votes[typ] > votes[winner] {
			winner = typ
		}
	}
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if end < start {
		end = start
	}
	return types.Entity{
		Text:  text[start:end],
		Type:  winner,
		Start: start,
		End:   end,
	}
}

// MergeAdjacent coalesces same-type entities separated by at most maxGap
// characters into one entity spanning both, re-slicing the text. Input
// must be in document order; entities of different types never merge.
func MergeAdjacent(text string, entities []types.Entity, maxGap int) []types.Entity {
	if len(entities) == 0 {
		return entities
	}
	out := []types.Entity{entities[0]}
	for _, e := range entities[1:] {
		last := &out[len(out)-1]
		if e.Type == last.Type && e.Start-last.End <= maxGap {
			last.End = e.End
			last.Text = text[last.Start:last.End]
			continue
		}
		out = append(out, e)
	}
	return out
}
