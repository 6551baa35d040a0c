// Package assessment derives logical assessments from flat candidate lists.
// An assessment is not a stored entity: it is the group of candidates that
// share an assessment title and the same named set of assigned tests.
package assessment

import (
	"sort"
	"strings"

	"github.com/RishiKendai/hermes/internal/models"
)

// GroupKey builds the content-based identity of a candidate's assessment:
// the assessment title joined with the sorted, de-duplicated test titles.
//
// Two candidates created independently but sharing a title and test set will
// merge into one group. Assessment identity is content-based on purpose;
// there is no batch foreign key to disambiguate.
func GroupKey(c *models.Candidate) string {
	return c.AssessmentTitle + "_" + testNames(c)
}

// testNames joins the sorted unique titles of the candidate's assigned tests.
func testNames(c *models.Candidate) string {
	seen := make(map[string]struct{}, len(c.AssignedTests))
	names := make([]string, 0, len(c.AssignedTests))
	for _, t := range c.AssignedTests {
		if _, ok := seen[t.Title]; ok {
			continue
		}
		seen[t.Title] = struct{}{}
		names = append(names, t.Title)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Group folds candidates into assessments. Candidates without assigned tests
// are ignored. Counts accumulate per group; a group's invite status upgrades
// to invited as soon as any member is invited and never downgrades, so the
// result does not depend on input order. Output is sorted descending by the
// latest member's createdAt.
func Group(candidates []models.Candidate) []models.Assessment {
	byKey := make(map[string]*models.Assessment)
	var order []string

	for i := range candidates {
		c := &candidates[i]
		if len(c.AssignedTests) == 0 {
			continue
		}
		key := GroupKey(c)

		acc, ok := byKey[key]
		if !ok {
			acc = &models.Assessment{
				Title:        c.AssessmentTitle,
				TestNames:    testNames(c),
				InviteStatus: c.InviteStatus,
				CreatedAt:    c.CreatedAt,
			}
			byKey[key] = acc
			order = append(order, key)
		}

		acc.TotalCandidates++
		if c.Completed() {
			acc.TotalCompleted++
		}
		acc.CandidateIDs = append(acc.CandidateIDs, c.ID)
		if c.IsInvited() {
			acc.InviteStatus = models.InviteSent
		}
		if c.CreatedAt > acc.CreatedAt {
			acc.CreatedAt = c.CreatedAt
		}
	}

	out := make([]models.Assessment, 0, len(byKey))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}
