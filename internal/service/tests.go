package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/RishiKendai/hermes/internal/models"
	"github.com/RishiKendai/hermes/internal/normalize"
	"github.com/RishiKendai/hermes/internal/skillmatch"
)

// TestService manages the test library.
type TestService struct {
	upstream Upstream
	pageSize int
}

func NewTestService(up Upstream, pageSize int) *TestService {
	return &TestService{upstream: up, pageSize: pageSize}
}

// List returns the full normalized test library.
func (s *TestService) List(ctx context.Context) ([]models.Test, error) {
	items, err := s.upstream.FetchAllPages(ctx, TestsCol, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	return normalize.Tests(items), nil
}

// Create validates and stores a new test definition.
func (s *TestService) Create(ctx context.Context, t models.Test) error {
	if err := validateTest(&t); err != nil {
		return err
	}
	t.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.upstream.CreateRecord(ctx, TestsCol, t); err != nil {
		return fmt.Errorf("failed to create test %q: %w", t.Title, err)
	}
	return nil
}

// Update applies a partial update to a test. Bodies arrive as raw JSON
// values, so the question list and minQuestions floor are decoded back into
// typed form before the same checks Create runs are applied. When only one
// side of the floor changes, the stored test supplies the other.
func (s *TestService) Update(ctx context.Context, id string, fields map[string]any) error {
	if id == "" {
		return fmt.Errorf("test id is required: %w", ErrValidation)
	}

	questions, hasQuestions, err := decodeQuestionsField(fields)
	if err != nil {
		return err
	}
	min, hasMin, err := decodeMinQuestionsField(fields)
	if err != nil {
		return err
	}

	if hasQuestions || hasMin {
		if !hasQuestions || !hasMin {
			stored, err := s.get(ctx, id)
			if err != nil {
				return err
			}
			if !hasQuestions {
				questions = stored.Questions
			}
			if !hasMin {
				min = stored.MinQuestions
			}
		}
		if min > 0 && len(questions) < min {
			return fmt.Errorf("test has %d questions, minimum is %d: %w", len(questions), min, ErrValidation)
		}
	}
	if hasQuestions {
		for i := range questions {
			if err := validateQuestion(&questions[i]); err != nil {
				return fmt.Errorf("question %d: %w", i+1, err)
			}
		}
	}

	if err := s.upstream.UpdateRecord(ctx, TestsCol, id, fields); err != nil {
		return fmt.Errorf("failed to update test %s: %w", id, err)
	}
	return nil
}

func (s *TestService) get(ctx context.Context, id string) (*models.Test, error) {
	tests, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tests {
		if tests[i].ID == id {
			return &tests[i], nil
		}
	}
	return nil, fmt.Errorf("test %s: %w", id, ErrNotFound)
}

func decodeQuestionsField(fields map[string]any) ([]models.Question, bool, error) {
	v, ok := fields["questions"]
	if !ok {
		return nil, false, nil
	}
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, false, fmt.Errorf("questions field is not encodable: %w", ErrValidation)
	}
	var qs []models.Question
	if err := json.Unmarshal(buf, &qs); err != nil {
		return nil, false, fmt.Errorf("questions field is malformed: %w", ErrValidation)
	}
	return qs, true, nil
}

func decodeMinQuestionsField(fields map[string]any) (int, bool, error) {
	v, ok := fields["minQuestions"]
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return int(n), true, nil
	case int:
		return n, true, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false, fmt.Errorf("minQuestions is not an integer: %w", ErrValidation)
		}
		return int(i), true, nil
	default:
		return 0, false, fmt.Errorf("minQuestions must be a number: %w", ErrValidation)
	}
}

// Delete removes a test definition. Assignment history is untouched: every
// assigned candidate carries a snapshot, not a reference.
func (s *TestService) Delete(ctx context.Context, id string) error {
	if err := s.upstream.DeleteRecord(ctx, TestsCol, id); err != nil {
		return fmt.Errorf("failed to delete test %s: %w", id, err)
	}
	return nil
}

// Recommend returns the tests visible to the caller for the given candidate
// skills, with the skill-matched subset preselected.
func (s *TestService) Recommend(ctx context.Context, skills []string, caller skillmatch.Caller) (*skillmatch.Result, error) {
	tests, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	res := skillmatch.Match(skills, tests, caller)
	return &res, nil
}

// Search filters the library by free text and unions the result with the
// caller's current selection.
func (s *TestService) Search(ctx context.Context, query string, selectedIDs []string) ([]models.Test, error) {
	tests, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	keep := make(map[string]struct{}, len(selectedIDs))
	for _, id := range selectedIDs {
		keep[id] = struct{}{}
	}
	selected := make([]models.Test, 0, len(selectedIDs))
	for _, t := range tests {
		if _, ok := keep[t.ID]; ok {
			selected = append(selected, t)
		}
	}

	return skillmatch.Search(query, tests, selected), nil
}

func validateTest(t *models.Test) error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("title is required: %w", ErrValidation)
	}
	if t.Duration <= 0 {
		return fmt.Errorf("duration must be positive: %w", ErrValidation)
	}
	if t.MinQuestions > 0 && len(t.Questions) < t.MinQuestions {
		return fmt.Errorf("test has %d questions, minimum is %d: %w", len(t.Questions), t.MinQuestions, ErrValidation)
	}
	for i := range t.Questions {
		if err := validateQuestion(&t.Questions[i]); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

// validateQuestion checks that keyed answers reference real option keys.
// DISC-family questions are exempt: their answers are structured maps that
// are never validated against the option set.
func validateQuestion(q *models.Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("question text is required: %w", ErrValidation)
	}
	if q.Type.IsDiscFamily() || !q.Type.HasKeyedAnswer() {
		return nil
	}

	answer, ok := q.Answer.(string)
	if !ok {
		return fmt.Errorf("answer must be an option key string: %w", ErrValidation)
	}
	for _, key := range strings.Split(answer, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, exists := q.Options[key]; !exists {
			return fmt.Errorf("answer key %q not present in options: %w", key, ErrValidation)
		}
	}
	return nil
}
