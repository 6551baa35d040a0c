package models

// Status is the lifecycle state of a candidate record.
type Status string

const (
	StatusRegistered Status = "Registered"
	StatusInvited    Status = "Invited"
	StatusCompleted  Status = "Completed"
	StatusFailed     Status = "Failed"
	StatusPlagiarism Status = "Plagiarism"
)

// InviteStatus tracks whether notification mail has gone out for a candidate.
type InviteStatus string

const (
	InvitePending InviteStatus = "pending"
	InviteSent    InviteStatus = "invited"
)

// Candidate is the canonical shape of a candidate record after normalization.
// JSON tags mirror the upstream collection field names, including the
// abbreviated assigned-tests array (asnT).
type Candidate struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone,omitempty"`
	CountryCode       string            `json:"countryCode,omitempty"`
	Country           string            `json:"country,omitempty"`
	PreferredLanguage string            `json:"preferredLanguage,omitempty"`
	Role              string            `json:"role"`
	Skills            []string          `json:"skills"`
	Status            Status            `json:"status"`
	CreatedAt         string            `json:"createdAt"` // ISO-8601, kept as string at this layer
	AssignedTests     []AssignedTestRef `json:"asnT,omitempty"`
	InviteStatus      InviteStatus      `json:"inviteStatus"`
	ScheduledDate     string            `json:"scheduledDate,omitempty"`
	ExpiryDate        string            `json:"expiryDate,omitempty"`
	AssessmentTitle   string            `json:"assessmentTitle,omitempty"`
}

// AssignedTestRef is an immutable snapshot of a test at assignment time.
// Later edits to the source test do not rewrite assignment history.
type AssignedTestRef struct {
	TestID        string   `json:"testId"`
	Title         string   `json:"title"`
	QuestionCount int      `json:"questionCount"`
	Duration      int      `json:"duration"`
	QuestionIDs   []string `json:"questionIds,omitempty"`
}

// Assigned reports the derived assigned-test count.
func (c *Candidate) Assigned() int {
	return len(c.AssignedTests)
}

// Completed reports whether the candidate finished their assessment.
func (c *Candidate) Completed() bool {
	return c.Status == StatusCompleted
}

// IsInvited reports whether invite mail has been dispatched for the candidate.
func (c *Candidate) IsInvited() bool {
	return c.InviteStatus == InviteSent
}
