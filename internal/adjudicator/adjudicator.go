package adjudicator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"coursemap/internal/domain"
)

// Near-deterministic sampling and a bounded answer, matching the shape the
// prompt asks for.
const (
	temperature      = 0.1
	maxTokens        = 500
	descriptionLimit = 200
)

// Adjudicator asks a language model to pick at most one best match from a
// ranked candidate list, with a short justification.
type Adjudicator struct {
	completer domain.Completer
}

func New(completer domain.Completer) *Adjudicator {
	return &Adjudicator{completer: completer}
}

// Adjudicate prompts the model with the foreign course and the candidates
// and parses its verdict. A response that cannot be decoded yields a
// *domain.VerdictParseError carrying the raw text; a negative verdict is a
// legitimate result, not an error.
func (a *Adjudicator) Adjudicate(ctx context.Context, name, description string, credits int, candidates []domain.MatchCandidate) (domain.Verdict, error) {
	prompt := buildPrompt(name, description, credits, candidates)
	raw, err := a.completer.Complete(ctx, prompt, temperature, maxTokens)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("complete: %w", err)
	}
	return parseVerdict(raw)
}

// buildPrompt enumerates each candidate with its code, name, type, credits,
// rounded-percent score and a truncated description, then asks for a
// fixed-shape JSON answer. The prompt is in the catalogue's language.
func buildPrompt(name, description string, credits int, candidates []domain.MatchCandidate) string {
	var list strings.Builder
	for _, c := range candidates {
		desc := c.Description
		if desc == "" {
			desc = "N/A"
		} else if r := []rune(desc); len(r) > descriptionLimit {
			desc = string(r[:descriptionLimit])
		}
		fmt.Fprintf(&list, "\n- [%s] %s\n  Type: %s | Crédits: %d | Score: %.0f%%\n  Description: %s\n",
			c.Code, c.Name, c.Kind, c.Credits, c.Score*100, desc)
	}
	if description == "" {
		description = "Non fournie"
	}
	return fmt.Sprintf(`Tu es expert en équivalences de cours universitaires pour l'UTC.

COURS ÉTRANGER:
- Nom: %s
- Description: %s
- Crédits: %d ECTS

UV UTC CANDIDATES:
%s
Analyse ces UV et détermine laquelle correspond le mieux au cours étranger.
Si aucune ne correspond vraiment, dis-le.

Réponds en JSON:
{"is_match": true/false, "code": "CODE" ou null, "nom": "Nom UV" ou null, "justification": "2-3 phrases max"}`,
		name, description, credits, list.String())
}

// parseVerdict decodes the JSON object embedded in the completion. Models
// often wrap the object in prose, so only the span between the first '{'
// and the last '}' is decoded.
func parseVerdict(raw string) (domain.Verdict, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return domain.Verdict{}, &domain.VerdictParseError{Raw: raw}
	}
	var v domain.Verdict
	if err := json.Unmarshal([]byte(raw[start:end+1]), &v); err != nil {
		return domain.Verdict{}, &domain.VerdictParseError{Raw: raw}
	}
	if !v.IsMatch {
		// Code and name carry no meaning on a negative verdict.
		v.Code, v.Name = "", ""
	}
	return v, nil
}
