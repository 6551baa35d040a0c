package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisInfra "github.com/RishiKendai/hermes/internal/infra/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Step is the delivery phase of an invite batch, tracked in Redis so the
// console can poll progress without holding a request open.
type Step string

const (
	StepIdle      Step = "idle"
	StepQueued    Step = "queued"
	StepSending   Step = "sending"
	StepCompleted Step = "completed"
	StepFailed    Step = "failed"
)

const statusKeyPrefix = "invite_batch_status:"

func UpdateStatus(ctx context.Context, redisClient *redisInfra.Client, batchID string, step Step, ttl time.Duration) error {
	validSteps := map[Step]bool{
		StepIdle:      true,
		StepQueued:    true,
		StepSending:   true,
		StepCompleted: true,
		StepFailed:    true,
	}
	if !validSteps[step] {
		return fmt.Errorf("unknown step: %s", step)
	}

	rkey := statusKeyPrefix + batchID

	err := redisClient.Set(ctx, rkey, string(step), ttl).Err()
	if err != nil {
		log.Error().Err(err).
			Str("step", string(step)).
			Str("batchId", batchID).
			Str("redisKey", rkey).
			Msg("Failed to update invite batch status in Redis")
		return fmt.Errorf("failed to update status in Redis: %w", err)
	}

	return nil
}

// GetStatus returns the current step for a batch, or StepIdle when the key
// has expired or was never written.
func GetStatus(ctx context.Context, redisClient *redisInfra.Client, batchID string) (Step, error) {
	val, err := redisClient.Get(ctx, statusKeyPrefix+batchID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return StepIdle, nil
		}
		return StepIdle, fmt.Errorf("failed to read invite batch status: %w", err)
	}
	return Step(val), nil
}
