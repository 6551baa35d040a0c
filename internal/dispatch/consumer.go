// Package dispatch delivers bulk invite mail asynchronously. Console actions
// enqueue a job per batch onto a Redis stream; a consumer-group worker drains
// the stream, sends the upstream mail call, flips each candidate's invite
// status, and tracks batch progress in Redis so the UI can poll it. Failed
// deliveries are retried a bounded number of times and then dead-lettered.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	redisInfra "github.com/RishiKendai/hermes/internal/infra/redis"
	"github.com/RishiKendai/hermes/internal/metrics"
	"github.com/RishiKendai/hermes/internal/models"
	"github.com/RishiKendai/hermes/internal/upstream"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Sender is the slice of the upstream client the dispatcher needs.
type Sender interface {
	SendEmail(ctx context.Context, req *upstream.EmailRequest) error
	UpdateRecord(ctx context.Context, colName, resourceID string, fields map[string]any) error
}

// Consumer drains the invite stream as part of a consumer group.
type Consumer struct {
	client        *redisInfra.Client
	streamKey     string
	consumerGroup string
	consumerName  string
	sender        Sender
	candidatesCol string
	pool          *WorkerPool
	retryHandler  *RetryHandler
	statusTTL     time.Duration
}

func NewConsumer(
	client *redisInfra.Client,
	streamKey string,
	consumerGroup string,
	consumerName string,
	sender Sender,
	candidatesCol string,
	pool *WorkerPool,
	retryHandler *RetryHandler,
	statusTTL time.Duration,
) *Consumer {
	return &Consumer{
		client:        client,
		streamKey:     streamKey,
		consumerGroup: consumerGroup,
		consumerName:  consumerName,
		sender:        sender,
		candidatesCol: candidatesCol,
		pool:          pool,
		retryHandler:  retryHandler,
		statusTTL:     statusTTL,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	if err := c.createConsumerGroup(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to create consumer group, may already exist")
	}

	if err := c.claimStale(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to claim stale invite messages on startup")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := c.consume(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("Error consuming invite messages")
				time.Sleep(1 * time.Second)
			}
		}
	}
}

func (c *Consumer) createConsumerGroup(ctx context.Context) error {
	// MKSTREAM creates the stream if it doesn't exist yet.
	err := c.client.XGroupCreateMkStream(ctx, c.streamKey, c.consumerGroup, "$").Err()
	if err != nil {
		if strings.Contains(err.Error(), "BUSYGROUP") {
			return nil
		}
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	log.Info().
		Str("group", c.consumerGroup).
		Str("stream", c.streamKey).
		Msg("Created invite consumer group")
	return nil
}

// claimStale takes over messages another consumer read but never acked, so a
// crashed replica cannot strand a batch.
func (c *Consumer) claimStale(ctx context.Context) error {
	msgs, _, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   c.streamKey,
		Group:    c.consumerGroup,
		Consumer: c.consumerName,
		MinIdle:  30 * time.Second,
		Start:    "0-0",
		Count:    100,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("failed to auto-claim pending messages: %w", err)
	}

	for _, msg := range msgs {
		c.handleMessage(msg)
	}
	return nil
}

func (c *Consumer) consume(ctx context.Context) error {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.consumerGroup,
		Consumer: c.consumerName,
		Streams:  []string{c.streamKey, ">"},
		Count:    10,
		Block:    5 * time.Second,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("failed to read invite stream: %w", err)
	}

	for _, stream := range streams {
		for _, msg := range stream.Messages {
			c.handleMessage(msg)
		}
	}
	return nil
}

func (c *Consumer) handleMessage(msg redis.XMessage) {
	raw, ok := msg.Values["job"].(string)
	if !ok {
		log.Warn().Str("messageId", msg.ID).Msg("Invite message missing job payload, acking")
		c.ack(msg.ID)
		return
	}

	var job InviteJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Warn().Err(err).Str("messageId", msg.ID).Msg("Invite message payload unreadable, acking")
		c.ack(msg.ID)
		return
	}

	if err := c.pool.Submit(&deliveryJob{consumer: c, job: job, messageID: msg.ID}); err != nil {
		log.Error().Err(err).Str("batchId", job.BatchID).Msg("Failed to submit invite job to pool")
	}
}

func (c *Consumer) ack(messageID string) {
	if err := c.client.XAck(context.Background(), c.streamKey, c.consumerGroup, messageID).Err(); err != nil {
		log.Warn().Err(err).Str("messageId", messageID).Msg("Failed to ack invite message")
	}
}

// deliveryJob sends one invite batch through the upstream mail endpoint and
// flips each candidate's invite status.
type deliveryJob struct {
	consumer  *Consumer
	job       InviteJob
	messageID string
}

func (d *deliveryJob) Execute(ctx context.Context) error {
	c := d.consumer
	// The message is acked whether delivery worked or not: failures are
	// re-queued as fresh messages by the retry handler.
	defer c.ack(d.messageID)

	if err := UpdateStatus(ctx, c.client, d.job.BatchID, StepSending, c.statusTTL); err != nil {
		log.Warn().Err(err).Str("batchId", d.job.BatchID).Msg("Failed to record sending status")
	}

	err := c.sender.SendEmail(ctx, &upstream.EmailRequest{
		Candidates: d.job.Emails,
		Subject:    d.job.Subject,
		Message:    d.job.Message,
	})
	if err != nil {
		metrics.InvitesDispatched.WithLabelValues("failed").Inc()
		if statusErr := UpdateStatus(ctx, c.client, d.job.BatchID, StepFailed, c.statusTTL); statusErr != nil {
			log.Warn().Err(statusErr).Str("batchId", d.job.BatchID).Msg("Failed to record failed status")
		}
		return c.retryHandler.HandleFailure(ctx, d.job, err)
	}

	for _, id := range d.job.CandidateIDs {
		fields := map[string]any{
			"inviteStatus": string(models.InviteSent),
			"status":       string(models.StatusInvited),
		}
		if err := c.sender.UpdateRecord(ctx, c.candidatesCol, id, fields); err != nil {
			log.Warn().Err(err).Str("candidateId", id).Msg("Failed to mark candidate invited")
		}
	}

	metrics.InvitesDispatched.WithLabelValues("completed").Inc()
	if err := UpdateStatus(ctx, c.client, d.job.BatchID, StepCompleted, c.statusTTL); err != nil {
		log.Warn().Err(err).Str("batchId", d.job.BatchID).Msg("Failed to record completed status")
	}

	log.Info().
		Str("batchId", d.job.BatchID).
		Int("candidates", len(d.job.CandidateIDs)).
		Msg("Invite batch delivered")
	return nil
}
