package service

import (
	"context"

	"github.com/RishiKendai/hermes/internal/models"
	"golang.org/x/sync/errgroup"
)

// DashboardOverview is the aggregate view the console landing page renders.
type DashboardOverview struct {
	TotalCandidates  int            `json:"totalCandidates"`
	CandidatesByStat map[string]int `json:"candidatesByStatus"`
	TotalTests       int            `json:"totalTests"`
	TotalQuestions   int            `json:"totalQuestions"`
	TotalDurationMin int            `json:"totalDurationMinutes"`
	TotalAssessments int            `json:"totalAssessments"`
	InvitesPending   int            `json:"invitesPending"`
}

// DashboardService computes cross-resource aggregates.
type DashboardService struct {
	candidates  *CandidateService
	tests       *TestService
	assessments *AssessmentService
}

func NewDashboardService(candidates *CandidateService, tests *TestService, assessments *AssessmentService) *DashboardService {
	return &DashboardService{candidates: candidates, tests: tests, assessments: assessments}
}

// Overview fetches candidates and tests concurrently: the two collections
// have no data dependency, so the fan-out waits for both and fails if either
// fails.
func (s *DashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	var (
		candidates []models.Candidate
		tests      []models.Test
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		candidates, err = s.candidates.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tests, err = s.tests.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview := &DashboardOverview{
		TotalCandidates:  len(candidates),
		CandidatesByStat: make(map[string]int),
		TotalTests:       len(tests),
	}
	for i := range candidates {
		overview.CandidatesByStat[string(candidates[i].Status)]++
		if !candidates[i].IsInvited() && len(candidates[i].AssignedTests) > 0 {
			overview.InvitesPending++
		}
	}
	for i := range tests {
		overview.TotalQuestions += len(tests[i].Questions)
		overview.TotalDurationMin += tests[i].Duration
	}

	assessments, err := s.assessments.List(ctx, false)
	if err != nil {
		return nil, err
	}
	overview.TotalAssessments = len(assessments)

	return overview, nil
}
