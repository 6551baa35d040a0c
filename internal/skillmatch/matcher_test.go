package skillmatch

import (
	"testing"

	"github.com/RishiKendai/hermes/internal/models"
)

func test(id, title string, hrNames ...string) models.Test {
	return models.Test{ID: id, Title: title, HrName: hrNames}
}

func TestMatch_CaseInsensitiveSubstring(t *testing.T) {
	tests := []models.Test{test("t1", "javascript basics")}
	res := Match([]string{"JavaScript"}, tests, Caller{Role: models.RoleRecruiter})
	if len(res.Visible) != 1 {
		t.Fatalf("expected skill to match despite case, got %d", len(res.Visible))
	}
}

// "java" matching "JavaScript" is intentional over-matching: the substring
// check pulls in test families for a related skill.
func TestMatch_SubstringOverMatches(t *testing.T) {
	tests := []models.Test{test("t1", "JavaScript Fundamentals")}
	res := Match([]string{"java"}, tests, Caller{Role: models.RoleRecruiter})
	if len(res.Visible) != 1 {
		t.Fatalf("substring over-matching expected, got %d results", len(res.Visible))
	}
}

func TestMatch_RestrictedRoleOwnershipFilter(t *testing.T) {
	tests := []models.Test{
		test("t1", "Go Basics", "Priya Sharma"),
		test("t2", "Go Advanced", "Someone Else"),
		test("t3", "SQL Primer", "Priya Sharma"),
	}
	res := Match([]string{"go"}, tests, Caller{Role: models.RoleRestricted, FullName: "Priya Sharma"})

	if len(res.Visible) != 2 {
		t.Fatalf("restricted caller should see only owned tests, got %d", len(res.Visible))
	}
	if len(res.Preselected) != 1 || res.Preselected[0].ID != "t1" {
		t.Fatalf("expected only owned skill-matched test preselected, got %+v", res.Preselected)
	}
}

func TestMatch_OwnershipIsCaseSensitive(t *testing.T) {
	tests := []models.Test{test("t1", "Go Basics", "priya sharma")}
	res := Match([]string{"go"}, tests, Caller{Role: models.RoleRestricted, FullName: "Priya Sharma"})
	if len(res.Visible) != 0 {
		t.Fatalf("ownership match must be exact and case-sensitive, got %d", len(res.Visible))
	}
}

func TestMatch_RestrictedWithNoOwnedTests(t *testing.T) {
	tests := []models.Test{test("t1", "Go Basics", "Someone Else")}
	res := Match(nil, tests, Caller{Role: models.RoleRestricted, FullName: "Priya Sharma"})
	if len(res.Visible) != 0 || len(res.Preselected) != 0 {
		t.Fatalf("expected empty result set, got %+v", res)
	}
}

func TestSearch_MatchesQuestionText(t *testing.T) {
	tests := []models.Test{
		{ID: "t1", Title: "Aptitude Round", Questions: []models.Question{{Text: "Explain goroutines"}}},
		{ID: "t2", Title: "SQL Primer"},
	}
	out := Search("goroutine", tests, nil)
	if len(out) != 1 || out[0].ID != "t1" {
		t.Fatalf("query should match embedded question text, got %+v", out)
	}
}

func TestSearch_KeepsSelectionDuringFilter(t *testing.T) {
	tests := []models.Test{
		{ID: "t1", Title: "Go Basics"},
		{ID: "t2", Title: "SQL Primer"},
	}
	selected := []models.Test{tests[1]}

	out := Search("go", tests, selected)
	if len(out) != 2 {
		t.Fatalf("selection must survive filtering, got %d results", len(out))
	}
	if out[0].ID != "t2" {
		t.Fatalf("selected tests should stay at the front, got %s", out[0].ID)
	}
}

func TestSearch_EmptyQueryReturnsAll(t *testing.T) {
	tests := []models.Test{{ID: "t1", Title: "Go"}, {ID: "t2", Title: "SQL"}}
	out := Search("", tests, nil)
	if len(out) != 2 {
		t.Fatalf("empty query should return everything, got %d", len(out))
	}
}
