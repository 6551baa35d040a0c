package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RishiKendai/hermes/internal/assessment"
	redisInfra "github.com/RishiKendai/hermes/internal/infra/redis"
	"github.com/RishiKendai/hermes/internal/metrics"
	"github.com/RishiKendai/hermes/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const snapshotKey = "assessments:snapshot"

// AssessmentService derives assessments by grouping the candidate snapshot.
// The derived list is cached in Redis with a short TTL so dashboard reads
// don't re-drain the whole candidate collection; writes are last-write-wins.
type AssessmentService struct {
	candidates *CandidateService
	redis      *redisInfra.Client
	ttl        time.Duration
}

func NewAssessmentService(candidates *CandidateService, redisClient *redisInfra.Client, ttl time.Duration) *AssessmentService {
	return &AssessmentService{candidates: candidates, redis: redisClient, ttl: ttl}
}

// List returns the derived assessments, from cache when fresh. A fetch
// failure surfaces as an error and leaves any previously cached snapshot in
// place.
func (s *AssessmentService) List(ctx context.Context, forceRefresh bool) ([]models.Assessment, error) {
	if !forceRefresh {
		if cached, ok := s.readSnapshot(ctx); ok {
			return cached, nil
		}
	}

	start := time.Now()
	candidates, err := s.candidates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build assessment snapshot: %w", err)
	}
	grouped := assessment.Group(candidates)
	metrics.SnapshotRefreshDuration.Observe(time.Since(start).Seconds())

	s.writeSnapshot(ctx, grouped)
	return grouped, nil
}

func (s *AssessmentService) readSnapshot(ctx context.Context) ([]models.Assessment, bool) {
	raw, err := s.redis.Get(ctx, snapshotKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("Failed to read assessment snapshot cache")
		}
		return nil, false
	}
	var out []models.Assessment
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		log.Warn().Err(err).Msg("Cached assessment snapshot unreadable, rebuilding")
		return nil, false
	}
	return out, true
}

func (s *AssessmentService) writeSnapshot(ctx context.Context, assessments []models.Assessment) {
	payload, err := json.Marshal(assessments)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal assessment snapshot")
		return
	}
	if err := s.redis.Set(ctx, snapshotKey, payload, s.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to cache assessment snapshot")
	}
}
