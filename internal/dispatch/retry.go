package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	redisInfra "github.com/RishiKendai/hermes/internal/infra/redis"
	"github.com/rs/zerolog/log"
)

// RetryHandler re-enqueues failed invite jobs up to a bounded attempt count,
// then parks them in a dead-letter list for manual inspection.
type RetryHandler struct {
	client        *redisInfra.Client
	producer      *Producer
	deadLetterKey string
	maxRetries    int
}

func NewRetryHandler(client *redisInfra.Client, producer *Producer, deadLetterKey string, maxRetries int) *RetryHandler {
	return &RetryHandler{
		client:        client,
		producer:      producer,
		deadLetterKey: deadLetterKey,
		maxRetries:    maxRetries,
	}
}

// HandleFailure decides what happens to a job whose delivery failed.
func (r *RetryHandler) HandleFailure(ctx context.Context, job InviteJob, cause error) error {
	if job.Attempt < r.maxRetries {
		job.Attempt++
		log.Warn().Err(cause).
			Str("batchId", job.BatchID).
			Int("attempt", job.Attempt).
			Msg("Invite delivery failed, re-queueing")
		return r.producer.Enqueue(ctx, job)
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal dead-letter job: %w", err)
	}
	if err := r.client.LPush(ctx, r.deadLetterKey, string(payload)).Err(); err != nil {
		return fmt.Errorf("failed to park job in dead-letter list: %w", err)
	}

	log.Error().Err(cause).
		Str("batchId", job.BatchID).
		Int("attempts", job.Attempt+1).
		Msg("Invite delivery exhausted retries, parked in dead-letter list")
	return nil
}
