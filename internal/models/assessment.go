package models

// Assessment is a derived grouping of candidates who share the same
// assessment title and the same named set of assigned tests. It is computed,
// never persisted.
type Assessment struct {
	Title           string       `json:"title"`
	TestNames       string       `json:"testNames"` // sorted, comma separated
	TotalCandidates int          `json:"totalCandidates"`
	TotalCompleted  int          `json:"totalCompleted"`
	InviteStatus    InviteStatus `json:"inviteStatus"`
	CandidateIDs    []string     `json:"candidateIds"`
	CreatedAt       string       `json:"createdAt"` // latest member candidate's timestamp
}

// Role is the caller permission tier carried in JWT claims.
type Role string

const (
	RoleAdmin      Role = "1"
	RoleRecruiter  Role = "2"
	RoleRestricted Role = "3" // HR tier, limited to tests tagged with their name
)
