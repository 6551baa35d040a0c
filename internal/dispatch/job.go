package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	redisInfra "github.com/RishiKendai/hermes/internal/infra/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// InviteJob is one bulk-invite request queued for asynchronous delivery.
type InviteJob struct {
	BatchID      string   `json:"batchId"`
	CandidateIDs []string `json:"candidateIds"`
	Emails       []string `json:"emails"`
	Subject      string   `json:"subject"`
	Message      string   `json:"message"`
	Attempt      int      `json:"attempt"`
}

// Producer enqueues invite jobs onto the Redis stream the consumer drains.
type Producer struct {
	client    *redisInfra.Client
	streamKey string
}

func NewProducer(client *redisInfra.Client, streamKey string) *Producer {
	return &Producer{client: client, streamKey: streamKey}
}

// Enqueue appends a job to the invite stream.
func (p *Producer) Enqueue(ctx context.Context, job InviteJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal invite job: %w", err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.streamKey,
		Values: map[string]any{"job": string(payload)},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to enqueue invite job: %w", err)
	}

	log.Info().
		Str("batchId", job.BatchID).
		Int("candidates", len(job.CandidateIDs)).
		Msg("Invite job queued")
	return nil
}
