package domain

import "strings"

// Term is the half-year a course unit is taught in. Values are the
// catalogue's own section markers.
type Term string

const (
	TermAutumn Term = "Automne"
	TermSpring Term = "Printemps"
)

// Kinds is the closed vocabulary of course unit categories used by the
// catalogue. A record's Kind is empty when none was detected.
var Kinds = []string{"CS", "TM", "TSH", "SP"}

// CourseRecord is one catalogued course unit (UV). JSON keys follow the
// catalogue's vocabulary so persisted artifacts stay compatible between runs.
type CourseRecord struct {
	Code        string `json:"code"`
	Name        string `json:"nom"`
	Kind        string `json:"type"`
	Credits     int    `json:"credits"`
	Term        Term   `json:"semestre"`
	Description string `json:"description"`
	Keywords    string `json:"mots_cles"`
}

// EmbeddingText is the exact string submitted to the embedding provider for
// this record: name, then description and keywords when present, joined by
// single spaces. Deterministic so index rebuilds are reproducible.
func (r CourseRecord) EmbeddingText() string {
	parts := []string{r.Name}
	if r.Description != "" {
		parts = append(parts, r.Description)
	}
	if r.Keywords != "" {
		parts = append(parts, r.Keywords)
	}
	return strings.Join(parts, " ")
}

// EmbeddedRecord is a CourseRecord plus its embedding vector. Built once per
// record by the embedding stage and immutable afterward.
type EmbeddedRecord struct {
	CourseRecord
	Embedding []float32 `json:"embedding"`
}

// MatchCandidate is one retrieved course unit with its 1-based similarity
// rank and cosine similarity score.
type MatchCandidate struct {
	Rank  int     `json:"rang"`
	Score float64 `json:"score"`
	CourseRecord
}

// Verdict is the adjudicator's final call on a ranked candidate list.
// Code and Name are empty when IsMatch is false.
type Verdict struct {
	IsMatch       bool   `json:"is_match"`
	Code          string `json:"code"`
	Name          string `json:"nom"`
	Justification string `json:"justification"`
}
