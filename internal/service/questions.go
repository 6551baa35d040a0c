package service

import (
	"context"
	"fmt"

	"github.com/RishiKendai/hermes/internal/models"
	"github.com/RishiKendai/hermes/internal/normalize"
	"github.com/RishiKendai/hermes/internal/questionbank"
)

// QuestionService exposes the shared question bank.
type QuestionService struct {
	upstream Upstream
	pageSize int
}

func NewQuestionService(up Upstream, pageSize int) *QuestionService {
	return &QuestionService{upstream: up, pageSize: pageSize}
}

// ListBank returns the de-duplicated question bank: identical question texts
// collapse into one record carrying the merged skill set.
func (s *QuestionService) ListBank(ctx context.Context) ([]models.Question, error) {
	items, err := s.upstream.FetchAllPages(ctx, QuestionBankCol, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list question bank: %w", err)
	}
	return questionbank.Dedupe(normalize.Questions(items)), nil
}

// FromTests flattens the embedded question arrays of the given tests and
// de-duplicates the result, so a question copied into several tests shows up
// once with consistent metadata.
func (s *QuestionService) FromTests(tests []models.Test) []models.Question {
	var all []models.Question
	for _, t := range tests {
		all = append(all, t.Questions...)
	}
	return questionbank.Dedupe(all)
}
