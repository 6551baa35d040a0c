package service

import (
	"context"
	"reflect"
	"testing"

	"github.com/RishiKendai/hermes/internal/models"
)

func TestListBank_DeduplicatesAcrossEntries(t *testing.T) {
	f := &fakeUpstream{collections: map[string][]any{
		QuestionBankCol: {
			map[string]any{"id": "q1", "question": "What is a goroutine?", "skills": []any{"Go"}},
			// Same question copied into another bank entry with different tags.
			`{"id":"q2","question":"What is a goroutine?","skills":["go","Concurrency"]}`,
		},
	}}
	svc := NewQuestionService(f, 100)

	out, err := svc.ListBank(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 deduplicated question, got %d", len(out))
	}
	want := []string{"Concurrency", "Go"}
	if !reflect.DeepEqual(out[0].Skills, want) {
		t.Fatalf("expected merged skills %v, got %v", want, out[0].Skills)
	}
}

func TestFromTests_FlattensEmbeddedQuestions(t *testing.T) {
	svc := NewQuestionService(&fakeUpstream{}, 100)

	tests := []models.Test{
		{ID: "t1", Questions: []models.Question{{ID: "q1", Text: "Shared question", Skills: []string{"Go"}}}},
		{ID: "t2", Questions: []models.Question{
			{ID: "q2", Text: "Shared question", Skills: []string{"Concurrency"}},
			{ID: "q3", Text: "Unique question", Skills: []string{"SQL"}},
		}},
	}
	out := svc.FromTests(tests)
	if len(out) != 2 {
		t.Fatalf("expected 2 questions after dedup, got %d", len(out))
	}
}
