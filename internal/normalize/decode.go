package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/RishiKendai/hermes/internal/models"
	"github.com/rs/zerolog/log"
)

// Field aliases seen across tenants. Older records use the long names; the
// canonical shape keeps the abbreviated upstream names the models declare.
var aliases = map[string]string{
	"assignedTests": "asnT",
	"text":          "question",
	"testName":      "title",
}

func applyAliases(rec map[string]any) {
	for from, to := range aliases {
		if v, ok := rec[from]; ok {
			if _, exists := rec[to]; !exists {
				rec[to] = v
			}
			delete(rec, from)
		}
	}
}

func decodeInto(rec map[string]any, out any) error {
	applyAliases(rec)
	buf, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to re-encode record: %w", err)
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	return nil
}

// Candidates canonicalizes and decodes raw collection items into candidate
// records, skipping entries that cannot be parsed.
func Candidates(items []any) []models.Candidate {
	recs := Batch(items)
	out := make([]models.Candidate, 0, len(recs))
	for _, rec := range recs {
		var c models.Candidate
		if err := decodeInto(rec, &c); err != nil {
			log.Warn().Err(err).Msg("Skipping candidate record that failed to decode")
			continue
		}
		if c.InviteStatus == "" {
			c.InviteStatus = models.InvitePending
		}
		out = append(out, c)
	}
	return out
}

// Tests canonicalizes and decodes raw collection items into test records.
func Tests(items []any) []models.Test {
	recs := Batch(items)
	out := make([]models.Test, 0, len(recs))
	for _, rec := range recs {
		var t models.Test
		if err := decodeInto(rec, &t); err != nil {
			log.Warn().Err(err).Msg("Skipping test record that failed to decode")
			continue
		}
		out = append(out, t)
	}
	return out
}

// Questions canonicalizes and decodes raw collection items into question
// records.
func Questions(items []any) []models.Question {
	recs := Batch(items)
	out := make([]models.Question, 0, len(recs))
	for _, rec := range recs {
		var q models.Question
		if err := decodeInto(rec, &q); err != nil {
			log.Warn().Err(err).Msg("Skipping question record that failed to decode")
			continue
		}
		out = append(out, q)
	}
	return out
}
