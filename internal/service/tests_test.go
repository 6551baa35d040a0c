package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/RishiKendai/hermes/internal/models"
	"github.com/RishiKendai/hermes/internal/skillmatch"
)

// jsonFields decodes a request body the way the update handler does, so the
// fields carry the generic shapes the service actually receives.
func jsonFields(t *testing.T, body string) map[string]any {
	t.Helper()
	var fields map[string]any
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return fields
}

func validTest() models.Test {
	return models.Test{
		Title:        "Go Basics",
		Duration:     30,
		MinQuestions: 1,
		Questions: []models.Question{{
			Text:    "Which keyword declares a constant?",
			Type:    models.TypeSingleSelect,
			Options: map[string]string{"Option1": "const", "Option2": "var"},
			Answer:  "Option1",
		}},
	}
}

func TestCreateTest_Valid(t *testing.T) {
	f := &fakeUpstream{}
	svc := NewTestService(f, 100)

	if err := svc.Create(context.Background(), validTest()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(f.created) != 1 {
		t.Fatalf("expected 1 create, got %d", len(f.created))
	}
}

func TestCreateTest_MinQuestionsEnforced(t *testing.T) {
	f := &fakeUpstream{}
	svc := NewTestService(f, 100)

	tt := validTest()
	tt.MinQuestions = 5
	err := svc.Create(context.Background(), tt)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(f.created) != 0 {
		t.Fatal("invalid test must not reach the upstream")
	}
}

func TestCreateTest_AnswerMustReferenceOptionKey(t *testing.T) {
	f := &fakeUpstream{}
	svc := NewTestService(f, 100)

	tt := validTest()
	tt.Questions[0].Answer = "Option9"
	err := svc.Create(context.Background(), tt)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for dangling answer key, got %v", err)
	}
}

func TestCreateTest_MultiSelectCSVAnswer(t *testing.T) {
	f := &fakeUpstream{}
	svc := NewTestService(f, 100)

	tt := validTest()
	tt.Questions[0].Type = models.TypeMultipleSelect
	tt.Questions[0].Answer = "Option1, Option2"
	if err := svc.Create(context.Background(), tt); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func TestCreateTest_DiscAnswersNotValidated(t *testing.T) {
	f := &fakeUpstream{}
	svc := NewTestService(f, 100)

	tt := validTest()
	tt.Questions[0].Type = models.TypeDisc
	tt.Questions[0].Answer = map[string]any{"D": 1, "I": 2}
	if err := svc.Create(context.Background(), tt); err != nil {
		t.Fatalf("DISC answers are exempt from option validation: %v", err)
	}
}

func TestUpdateTest_MinQuestionsEnforcedOnJSONBody(t *testing.T) {
	f := &fakeUpstream{}
	svc := NewTestService(f, 100)

	fields := jsonFields(t, `{
		"minQuestions": 5,
		"questions": [{"question": "x", "type": "SingleSelect", "options": {"Option1": "a"}, "answer": "Option1"}]
	}`)
	err := svc.Update(context.Background(), "t1", fields)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(f.updated) != 0 {
		t.Fatalf("invalid update must not reach the upstream, got %d", len(f.updated))
	}
}

func TestUpdateTest_QuestionsCheckedAgainstStoredFloor(t *testing.T) {
	f := &fakeUpstream{collections: map[string][]any{
		TestsCol: {
			map[string]any{"id": "t1", "title": "Go Basics", "duration": float64(30), "minQuestions": float64(3)},
		},
	}}
	svc := NewTestService(f, 100)

	fields := jsonFields(t, `{
		"questions": [{"question": "only one", "type": "Essay"}]
	}`)
	err := svc.Update(context.Background(), "t1", fields)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("shrinking below the stored floor must fail, got %v", err)
	}
	if len(f.updated) != 0 {
		t.Fatal("invalid update must not reach the upstream")
	}
}

func TestUpdateTest_RaisedFloorCheckedAgainstStoredQuestions(t *testing.T) {
	f := &fakeUpstream{collections: map[string][]any{
		TestsCol: {
			map[string]any{
				"id": "t1", "title": "Go Basics", "duration": float64(30),
				"questions": []any{map[string]any{"question": "x", "type": "Essay"}},
			},
		},
	}}
	svc := NewTestService(f, 100)

	err := svc.Update(context.Background(), "t1", jsonFields(t, `{"minQuestions": 4}`))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("raising the floor past the stored question count must fail, got %v", err)
	}
}

func TestUpdateTest_AnswerKeysValidatedOnJSONBody(t *testing.T) {
	f := &fakeUpstream{}
	svc := NewTestService(f, 100)

	fields := jsonFields(t, `{
		"questions": [{"question": "x", "type": "SingleSelect", "options": {"Option1": "a"}, "answer": "Option9"}]
	}`)
	err := svc.Update(context.Background(), "t1", fields)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for dangling answer key, got %v", err)
	}
	if len(f.updated) != 0 {
		t.Fatal("invalid update must not reach the upstream")
	}
}

func TestUpdateTest_ValidJSONBodyGoesThrough(t *testing.T) {
	f := &fakeUpstream{}
	svc := NewTestService(f, 100)

	fields := jsonFields(t, `{
		"minQuestions": 1,
		"questions": [{"question": "x", "type": "SingleSelect", "options": {"Option1": "a"}, "answer": "Option1"}]
	}`)
	if err := svc.Update(context.Background(), "t1", fields); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(f.updated) != 1 {
		t.Fatalf("expected 1 update, got %d", len(f.updated))
	}
}

func TestUpdateTest_UntouchedFieldsSkipFloorCheck(t *testing.T) {
	f := &fakeUpstream{}
	svc := NewTestService(f, 100)

	if err := svc.Update(context.Background(), "t1", jsonFields(t, `{"title": "Renamed"}`)); err != nil {
		t.Fatalf("title-only update must not fetch or validate questions: %v", err)
	}
	if len(f.updated) != 1 {
		t.Fatalf("expected 1 update, got %d", len(f.updated))
	}
}

func TestRecommend_UsesCallerRole(t *testing.T) {
	f := &fakeUpstream{collections: map[string][]any{
		TestsCol: {
			map[string]any{"id": "t1", "title": "React Basics", "duration": float64(30), "hrName": []any{"Priya Sharma"}},
			map[string]any{"id": "t2", "title": "React Advanced", "duration": float64(30)},
		},
	}}
	svc := NewTestService(f, 100)

	res, err := svc.Recommend(context.Background(), []string{"react"}, skillmatch.Caller{
		Role:     models.RoleRestricted,
		FullName: "Priya Sharma",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.Visible) != 1 || res.Visible[0].ID != "t1" {
		t.Fatalf("restricted caller should only see owned tests, got %+v", res.Visible)
	}
}

func TestSearch_SelectionSurvives(t *testing.T) {
	f := &fakeUpstream{collections: map[string][]any{
		TestsCol: {
			map[string]any{"id": "t1", "title": "Go Basics", "duration": float64(30)},
			map[string]any{"id": "t2", "title": "SQL Primer", "duration": float64(30)},
		},
	}}
	svc := NewTestService(f, 100)

	out, err := svc.Search(context.Background(), "go", []string{"t2"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("selected off-screen test must not be dropped, got %d", len(out))
	}
}
