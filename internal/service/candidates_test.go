package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/RishiKendai/hermes/internal/models"
	"github.com/RishiKendai/hermes/internal/upstream"
)

type createCall struct {
	col    string
	record any
}

type updateCall struct {
	col    string
	id     string
	fields map[string]any
}

type fakeUpstream struct {
	collections map[string][]any
	created     []createCall
	updated     []updateCall
	deleted     []string
	fetchErr    error
}

func (f *fakeUpstream) FetchAllPages(_ context.Context, colName string, _ int) ([]any, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.collections[colName], nil
}

func (f *fakeUpstream) CreateRecord(_ context.Context, colName string, record any) error {
	f.created = append(f.created, createCall{col: colName, record: record})
	return nil
}

func (f *fakeUpstream) UpdateRecord(_ context.Context, colName, resourceID string, fields map[string]any) error {
	f.updated = append(f.updated, updateCall{col: colName, id: resourceID, fields: fields})
	return nil
}

func (f *fakeUpstream) DeleteRecord(_ context.Context, _, resourceID string) error {
	f.deleted = append(f.deleted, resourceID)
	return nil
}

func (f *fakeUpstream) SendEmail(context.Context, *upstream.EmailRequest) error { return nil }

func existingCandidate(id, email, role string, tests ...string) map[string]any {
	refs := make([]any, len(tests))
	for i, name := range tests {
		refs[i] = map[string]any{"testId": "t-" + name, "title": name}
	}
	rec := map[string]any{
		"id":     id,
		"name":   "Existing " + id,
		"email":  email,
		"role":   role,
		"skills": []any{"React"},
		"status": "Registered",
	}
	if len(refs) > 0 {
		rec["asnT"] = refs
	}
	return rec
}

func newCandidateService(f *fakeUpstream) *CandidateService {
	return NewCandidateService(f, 100, nil, nil, 0)
}

func TestImport_DuplicateSkippedWithWarning(t *testing.T) {
	f := &fakeUpstream{collections: map[string][]any{
		CandidatesCol: {existingCandidate("c1", "a@x.com", "Dev")},
	}}
	svc := newCandidateService(f)

	report, err := svc.Import(context.Background(), []models.Candidate{
		{Name: "Asha", Email: "a@x.com", Role: "Dev", Skills: []string{"React"}},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if report.Created != 0 {
		t.Fatalf("duplicate must not create records, created %d", report.Created)
	}
	if len(report.Skipped) != 1 || !strings.Contains(report.Skipped[0], "a@x.com") {
		t.Fatalf("expected one warning naming the duplicate, got %v", report.Skipped)
	}
	if len(f.created) != 0 {
		t.Fatalf("no upstream create expected, got %d", len(f.created))
	}
}

func TestImport_NonDuplicatesStillSucceed(t *testing.T) {
	f := &fakeUpstream{collections: map[string][]any{
		CandidatesCol: {existingCandidate("c1", "a@x.com", "Dev")},
	}}
	svc := newCandidateService(f)

	report, err := svc.Import(context.Background(), []models.Candidate{
		{Name: "Asha", Email: "a@x.com", Role: "Dev"},
		{Name: "Ravi", Email: "r@x.com", Role: "Dev"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if report.Created != 1 {
		t.Fatalf("non-duplicate entry should be created, created %d", report.Created)
	}
	if len(report.Skipped) != 1 {
		t.Fatalf("expected 1 skipped, got %v", report.Skipped)
	}
	created := f.created[0].record.(models.Candidate)
	if created.Status != models.StatusRegistered || created.InviteStatus != models.InvitePending {
		t.Fatalf("defaults not applied: %+v", created)
	}
	if created.CreatedAt == "" {
		t.Fatal("createdAt must be stamped")
	}
}

func TestImport_SameEmailDifferentRoleAllowed(t *testing.T) {
	f := &fakeUpstream{collections: map[string][]any{
		CandidatesCol: {existingCandidate("c1", "a@x.com", "Dev")},
	}}
	svc := newCandidateService(f)

	report, err := svc.Import(context.Background(), []models.Candidate{
		{Name: "Asha", Email: "a@x.com", Role: "QA"},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if report.Created != 1 {
		t.Fatalf("same email with a different role is not a duplicate, created %d", report.Created)
	}
}

func TestAdd_DuplicateSurfacesAsError(t *testing.T) {
	f := &fakeUpstream{collections: map[string][]any{
		CandidatesCol: {existingCandidate("c1", "a@x.com", "Dev")},
	}}
	svc := newCandidateService(f)

	err := svc.Add(context.Background(), models.Candidate{Name: "Asha", Email: "A@x.com", Role: "Dev"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestImport_ValidationRejectsBeforeUpstreamCall(t *testing.T) {
	f := &fakeUpstream{collections: map[string][]any{}}
	svc := newCandidateService(f)

	_, err := svc.Import(context.Background(), []models.Candidate{{Name: "No Email", Role: "Dev"}})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(f.created) != 0 {
		t.Fatal("no request must be sent for invalid input")
	}
}

func TestImport_InvalidEntryRejectsWholeBatchUpFront(t *testing.T) {
	f := &fakeUpstream{collections: map[string][]any{}}
	svc := newCandidateService(f)

	_, err := svc.Import(context.Background(), []models.Candidate{
		{Name: "Good", Email: "g@x.com", Role: "Dev"},
		{Name: "Bad", Role: "Dev"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(f.created) != 0 {
		t.Fatalf("a bad entry must stop the batch before any create, got %d", len(f.created))
	}
}

func TestAssignTests_FirstRoundUpdatesInPlace(t *testing.T) {
	f := &fakeUpstream{collections: map[string][]any{
		CandidatesCol: {existingCandidate("c1", "a@x.com", "Dev")},
	}}
	svc := newCandidateService(f)

	tests := []models.Test{{
		ID: "t1", Title: "Go Basics", Duration: 30,
		Questions: []models.Question{{ID: "q1", Text: "x"}, {ID: "q2", Text: "y"}},
	}}
	err := svc.AssignTests(context.Background(), "c1", "Backend Drive", tests, "", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(f.created) != 0 {
		t.Fatal("first assignment must update in place, not create")
	}
	if len(f.updated) != 1 {
		t.Fatalf("expected 1 update, got %d", len(f.updated))
	}
	refs := f.updated[0].fields["asnT"].([]models.AssignedTestRef)
	if refs[0].QuestionCount != 2 || refs[0].Title != "Go Basics" {
		t.Fatalf("snapshot not denormalized: %+v", refs[0])
	}
}

func TestAssignTests_SecondRoundCreatesNewRecord(t *testing.T) {
	f := &fakeUpstream{collections: map[string][]any{
		CandidatesCol: {existingCandidate("c1", "a@x.com", "Dev", "Old Test")},
	}}
	svc := newCandidateService(f)

	tests := []models.Test{{ID: "t2", Title: "New Test", Duration: 45}}
	err := svc.AssignTests(context.Background(), "c1", "Round Two", tests, "", "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(f.updated) != 0 {
		t.Fatal("existing assignment history must never be overwritten")
	}
	if len(f.created) != 1 {
		t.Fatalf("expected a brand-new candidate record, got %d creates", len(f.created))
	}
	clone := f.created[0].record.(models.Candidate)
	if clone.ID != "" {
		t.Fatalf("clone must let the server assign a fresh id, got %q", clone.ID)
	}
	if clone.AssessmentTitle != "Round Two" || len(clone.AssignedTests) != 1 {
		t.Fatalf("clone carries wrong assignment: %+v", clone)
	}
	if clone.Email != "a@x.com" {
		t.Fatalf("clone must keep candidate identity, got %q", clone.Email)
	}
}

func TestAssignTests_UnknownCandidate(t *testing.T) {
	f := &fakeUpstream{collections: map[string][]any{}}
	svc := newCandidateService(f)

	err := svc.AssignTests(context.Background(), "ghost", "Drive", []models.Test{{ID: "t1", Title: "Go"}}, "", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemove_DeletesWholeRecord(t *testing.T) {
	f := &fakeUpstream{}
	svc := newCandidateService(f)

	if err := svc.Remove(context.Background(), "c9"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(f.deleted) != 1 || f.deleted[0] != "c9" {
		t.Fatalf("expected hard delete of c9, got %v", f.deleted)
	}
}

func TestList_UpstreamFailureSurfaces(t *testing.T) {
	f := &fakeUpstream{fetchErr: errors.New("upstream down")}
	svc := newCandidateService(f)

	if _, err := svc.List(context.Background()); err == nil {
		t.Fatal("expected upstream failure to surface")
	}
}
