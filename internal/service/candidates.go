package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RishiKendai/hermes/internal/dispatch"
	redisInfra "github.com/RishiKendai/hermes/internal/infra/redis"
	"github.com/RishiKendai/hermes/internal/models"
	"github.com/RishiKendai/hermes/internal/normalize"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrDuplicate = errors.New("duplicate candidate")

// InviteQueue enqueues invite batches for asynchronous delivery.
type InviteQueue interface {
	Enqueue(ctx context.Context, job dispatch.InviteJob) error
}

// CandidateService manages candidate records.
type CandidateService struct {
	upstream  Upstream
	pageSize  int
	queue     InviteQueue
	redis     *redisInfra.Client
	statusTTL time.Duration
}

func NewCandidateService(up Upstream, pageSize int, queue InviteQueue, redis *redisInfra.Client, statusTTL time.Duration) *CandidateService {
	return &CandidateService{
		upstream:  up,
		pageSize:  pageSize,
		queue:     queue,
		redis:     redis,
		statusTTL: statusTTL,
	}
}

// List returns the full normalized candidate snapshot for the tenant.
func (s *CandidateService) List(ctx context.Context) ([]models.Candidate, error) {
	items, err := s.upstream.FetchAllPages(ctx, CandidatesCol, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	return normalize.Candidates(items), nil
}

// Get returns a single candidate by id.
func (s *CandidateService) Get(ctx context.Context, id string) (*models.Candidate, error) {
	candidates, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].ID == id {
			return &candidates[i], nil
		}
	}
	return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
}

// ImportReport summarizes one import batch. Skipped entries are a business
// warning, not an error: the rest of the batch still goes through.
type ImportReport struct {
	BatchID string   `json:"batchId"`
	Created int      `json:"created"`
	Skipped []string `json:"skipped,omitempty"`
}

// Import creates the given candidates, skipping entries that duplicate an
// existing candidate (or an earlier entry in the same batch) on the
// email+role pairing. Each skipped entry is named in the report.
func (s *CandidateService) Import(ctx context.Context, batch []models.Candidate) (*ImportReport, error) {
	// The whole batch is validated before any network call so a bad entry
	// in the middle can never leave a half-created batch behind.
	for i := range batch {
		if err := validateCandidate(&batch[i]); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}

	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(existing))
	for i := range existing {
		seen[dupKey(&existing[i])] = struct{}{}
	}

	report := &ImportReport{BatchID: uuid.New().String()}
	for i := range batch {
		c := batch[i]
		key := dupKey(&c)
		if _, dup := seen[key]; dup {
			report.Skipped = append(report.Skipped, fmt.Sprintf("%s (%s, %s)", c.Name, c.Email, c.Role))
			continue
		}
		seen[key] = struct{}{}

		if c.Status == "" {
			c.Status = models.StatusRegistered
		}
		if c.InviteStatus == "" {
			c.InviteStatus = models.InvitePending
		}
		c.CreatedAt = time.Now().UTC().Format(time.RFC3339)

		if err := s.upstream.CreateRecord(ctx, CandidatesCol, c); err != nil {
			return nil, fmt.Errorf("failed to create candidate %s: %w", c.Email, err)
		}
		report.Created++
	}

	log.Info().
		Str("batchId", report.BatchID).
		Int("created", report.Created).
		Int("skipped", len(report.Skipped)).
		Msg("Candidate import finished")
	return report, nil
}

// Add creates a single candidate. A duplicate surfaces as ErrDuplicate so
// the handler can report it distinctly from a real failure.
func (s *CandidateService) Add(ctx context.Context, c models.Candidate) error {
	report, err := s.Import(ctx, []models.Candidate{c})
	if err != nil {
		return err
	}
	if report.Created == 0 {
		return fmt.Errorf("%s/%s: %w", c.Email, c.Role, ErrDuplicate)
	}
	return nil
}

// AssignTests writes a snapshot of the given tests onto the candidate. The
// snapshot denormalizes title, duration and question count at assignment
// time so later edits to a test never rewrite assignment history. A
// candidate who already carries an assignment keeps it: a new round creates
// a brand-new candidate record instead of overwriting.
func (s *CandidateService) AssignTests(ctx context.Context, candidateID, assessmentTitle string, tests []models.Test, scheduledDate, expiryDate string) error {
	if len(tests) == 0 {
		return fmt.Errorf("at least one test is required: %w", ErrValidation)
	}

	c, err := s.Get(ctx, candidateID)
	if err != nil {
		return err
	}

	refs := make([]models.AssignedTestRef, 0, len(tests))
	for _, t := range tests {
		ids := make([]string, 0, len(t.Questions))
		for _, q := range t.Questions {
			ids = append(ids, q.ID)
		}
		refs = append(refs, models.AssignedTestRef{
			TestID:        t.ID,
			Title:         t.Title,
			QuestionCount: len(t.Questions),
			Duration:      t.Duration,
			QuestionIDs:   ids,
		})
	}

	if len(c.AssignedTests) > 0 {
		clone := *c
		clone.ID = ""
		clone.AssignedTests = refs
		clone.AssessmentTitle = assessmentTitle
		clone.ScheduledDate = scheduledDate
		clone.ExpiryDate = expiryDate
		clone.Status = models.StatusRegistered
		clone.InviteStatus = models.InvitePending
		clone.CreatedAt = time.Now().UTC().Format(time.RFC3339)
		if err := s.upstream.CreateRecord(ctx, CandidatesCol, clone); err != nil {
			return fmt.Errorf("failed to create new assignment round for %s: %w", candidateID, err)
		}
		return nil
	}

	fields := map[string]any{
		"asnT":            refs,
		"assessmentTitle": assessmentTitle,
		"scheduledDate":   scheduledDate,
		"expiryDate":      expiryDate,
	}
	if err := s.upstream.UpdateRecord(ctx, CandidatesCol, candidateID, fields); err != nil {
		return fmt.Errorf("failed to assign tests to %s: %w", candidateID, err)
	}
	return nil
}

// Invite queues an invite batch for the given candidates and returns the
// batch id the console polls for delivery status.
func (s *CandidateService) Invite(ctx context.Context, candidateIDs []string, subject, message string) (string, error) {
	if len(candidateIDs) == 0 {
		return "", fmt.Errorf("no candidates selected: %w", ErrValidation)
	}

	candidates, err := s.List(ctx)
	if err != nil {
		return "", err
	}
	byID := make(map[string]*models.Candidate, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}

	emails := make([]string, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		c, ok := byID[id]
		if !ok {
			return "", fmt.Errorf("candidate %s: %w", id, ErrNotFound)
		}
		emails = append(emails, c.Email)
	}

	job := dispatch.InviteJob{
		BatchID:      uuid.New().String(),
		CandidateIDs: candidateIDs,
		Emails:       emails,
		Subject:      subject,
		Message:      message,
	}

	if err := dispatch.UpdateStatus(ctx, s.redis, job.BatchID, dispatch.StepQueued, s.statusTTL); err != nil {
		log.Warn().Err(err).Str("batchId", job.BatchID).Msg("Failed to record queued status")
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return "", fmt.Errorf("failed to queue invites: %w", err)
	}
	return job.BatchID, nil
}

// InviteStatus returns the delivery phase of a previously queued batch.
func (s *CandidateService) InviteStatus(ctx context.Context, batchID string) (dispatch.Step, error) {
	return dispatch.GetStatus(ctx, s.redis, batchID)
}

// Remove hard-deletes the whole candidate record, assignment history
// included.
func (s *CandidateService) Remove(ctx context.Context, id string) error {
	if err := s.upstream.DeleteRecord(ctx, CandidatesCol, id); err != nil {
		return fmt.Errorf("failed to delete candidate %s: %w", id, err)
	}
	return nil
}

func dupKey(c *models.Candidate) string {
	return strings.ToLower(strings.TrimSpace(c.Email)) + "|" + strings.TrimSpace(c.Role)
}

func validateCandidate(c *models.Candidate) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("name is required: %w", ErrValidation)
	}
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("email is required: %w", ErrValidation)
	}
	if strings.TrimSpace(c.Role) == "" {
		return fmt.Errorf("role is required: %w", ErrValidation)
	}
	return nil
}
