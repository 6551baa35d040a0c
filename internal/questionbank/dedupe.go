// Package questionbank flattens and de-duplicates question records. The same
// logical question gets copied into many tests and bank entries, each copy
// carrying whatever subset of skill tags its author bothered to add; two
// records with identical normalized text are one question, and their skill
// sets are merged so every copy displays the same metadata.
package questionbank

import (
	"sort"
	"strings"

	"github.com/RishiKendai/hermes/internal/models"
)

const fallbackSkill = "General"

var skillSeparators = func(r rune) bool {
	return r == ';' || r == ',' || r == '|'
}

// Dedupe collapses questions with identical trimmed text into a single
// representative record whose skills are the union of every duplicate's
// tokens, title-cased and sorted case-insensitively for stable display.
func Dedupe(questions []models.Question) []models.Question {
	merged := make(map[string]map[string]struct{})
	for i := range questions {
		key := textKey(&questions[i])
		set, ok := merged[key]
		if !ok {
			set = make(map[string]struct{})
			merged[key] = set
		}
		for tok := range ownTokens(&questions[i]) {
			set[tok] = struct{}{}
		}
	}

	reps := make(map[string]int)
	var order []string
	for i := range questions {
		key := textKey(&questions[i])
		prev, ok := reps[key]
		if !ok {
			reps[key] = i
			order = append(order, key)
			continue
		}
		if betterRepresentative(&questions[i], &questions[prev]) {
			reps[key] = i
		}
	}

	out := make([]models.Question, 0, len(order))
	for _, key := range order {
		q := questions[reps[key]]
		q.Skills = displaySkills(merged[key])
		out = append(out, q)
	}
	return out
}

func textKey(q *models.Question) string {
	return strings.TrimSpace(q.Text)
}

// ownTokens expands a single question's skill strings on the separator set
// into lowercase tokens. A question with no skills contributes its category,
// or "General" when it has none.
func ownTokens(q *models.Question) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, skill := range q.Skills {
		for _, part := range strings.FieldsFunc(skill, skillSeparators) {
			tok := strings.ToLower(strings.TrimSpace(part))
			if tok != "" {
				tokens[tok] = struct{}{}
			}
		}
	}
	if len(tokens) == 0 {
		fallback := strings.TrimSpace(q.Category)
		if fallback == "" {
			fallback = fallbackSkill
		}
		tokens[strings.ToLower(fallback)] = struct{}{}
	}
	return tokens
}

// betterRepresentative prefers the candidate duplicate when its own skill set
// is larger, or when it is non-generic while the incumbent's is generic.
func betterRepresentative(candidate, incumbent *models.Question) bool {
	cand := ownTokens(candidate)
	inc := ownTokens(incumbent)
	if isGeneric(inc) && !isGeneric(cand) {
		return true
	}
	return len(cand) > len(inc)
}

func isGeneric(tokens map[string]struct{}) bool {
	if len(tokens) == 0 {
		return true
	}
	if len(tokens) == 1 {
		_, ok := tokens[strings.ToLower(fallbackSkill)]
		return ok
	}
	return false
}

func displaySkills(tokens map[string]struct{}) []string {
	out := make([]string, 0, len(tokens))
	for tok := range tokens {
		out = append(out, titleCase(tok))
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}
