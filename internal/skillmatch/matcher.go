// Package skillmatch recommends tests for a candidate based on their skill
// list and the caller's permission tier.
package skillmatch

import (
	"strings"

	"github.com/RishiKendai/hermes/internal/models"
)

// Caller identifies who is asking for recommendations. Restricted-tier
// callers only ever see tests explicitly tagged with their full name.
type Caller struct {
	Role     models.Role
	FullName string // firstName + " " + lastName, matched case-sensitively
}

// Result separates the visible catalog from the auto-preselected subset.
// For unrestricted callers the two are the same list.
type Result struct {
	Visible     []models.Test
	Preselected []models.Test
}

// Match selects tests for a candidate's skills.
//
// Restricted callers (role "3") see only tests whose hrName tags contain
// their exact full name; within those, the skill-matched subset is
// preselected. Everyone else sees the skill-matched tests directly.
// Skill matching is a case-insensitive substring test against the title, so
// "java" matches "JavaScript" — intentional over-matching, kept because
// recruiters rely on it for families of related tests.
func Match(skills []string, tests []models.Test, caller Caller) Result {
	switch caller.Role {
	case models.RoleRestricted:
		owned := make([]models.Test, 0, len(tests))
		for _, t := range tests {
			if t.OwnedBy(caller.FullName) {
				owned = append(owned, t)
			}
		}
		return Result{
			Visible:     owned,
			Preselected: bySkills(skills, owned),
		}
	case models.RoleAdmin, models.RoleRecruiter:
		matched := bySkills(skills, tests)
		return Result{Visible: matched, Preselected: matched}
	}
	// Unknown tier gets the unrestricted behavior.
	matched := bySkills(skills, tests)
	return Result{Visible: matched, Preselected: matched}
}

func bySkills(skills []string, tests []models.Test) []models.Test {
	out := make([]models.Test, 0, len(tests))
	for _, t := range tests {
		if titleMatchesAny(t.Title, skills) {
			out = append(out, t)
		}
	}
	return out
}

func titleMatchesAny(title string, skills []string) bool {
	lower := strings.ToLower(title)
	for _, skill := range skills {
		s := strings.ToLower(strings.TrimSpace(skill))
		if s == "" {
			continue
		}
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// Search filters tests by a free-text query against the title or any
// embedded question's text, then unions the result with the currently
// selected tests so that filtering never silently deselects a test that has
// scrolled out of view. Selected tests keep their position at the front.
func Search(query string, tests, selected []models.Test) []models.Test {
	q := strings.ToLower(strings.TrimSpace(query))

	keep := make(map[string]struct{}, len(selected))
	out := make([]models.Test, 0, len(selected)+len(tests))
	for _, t := range selected {
		keep[t.ID] = struct{}{}
		out = append(out, t)
	}

	for _, t := range tests {
		if _, ok := keep[t.ID]; ok {
			continue
		}
		if q == "" || matchesQuery(&t, q) {
			out = append(out, t)
		}
	}
	return out
}

func matchesQuery(t *models.Test, q string) bool {
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	for _, question := range t.Questions {
		if strings.Contains(strings.ToLower(question.Text), q) {
			return true
		}
	}
	return false
}
