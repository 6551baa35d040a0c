// Package service implements the operations behind the admin console API:
// candidate management, test authoring, question-bank browsing, assessment
// derivation and dashboard aggregates. All tenant data lives behind the
// upstream collection API; services fetch full snapshots, normalize them and
// compute derived state, so there is no shared mutable state to guard.
package service

import (
	"context"
	"errors"

	"github.com/RishiKendai/hermes/internal/upstream"
)

// Upstream collection names.
const (
	CandidatesCol   = "candidates"
	TestsCol        = "tests"
	QuestionBankCol = "questionbank"
)

// Upstream is the slice of the collection API the services consume.
// *upstream.Client satisfies it; tests substitute hand-written fakes.
type Upstream interface {
	FetchAllPages(ctx context.Context, colName string, pageSize int) ([]any, error)
	CreateRecord(ctx context.Context, colName string, record any) error
	UpdateRecord(ctx context.Context, colName, resourceID string, fields map[string]any) error
	DeleteRecord(ctx context.Context, colName, resourceID string) error
	SendEmail(ctx context.Context, req *upstream.EmailRequest) error
}

var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("validation failed")
)
