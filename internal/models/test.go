package models

// Test is an authored assessment definition from the test library.
type Test struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Duration     int        `json:"duration"` // minutes
	Difficulty   string     `json:"difficulty,omitempty"`
	Category     string     `json:"category,omitempty"`
	Skills       []string   `json:"skills,omitempty"`
	Questions    []Question `json:"questions"`
	MinQuestions int        `json:"minQuestions,omitempty"`
	PassingScore int        `json:"passingScore,omitempty"`
	MaxAttempts  int        `json:"maxAttempts,omitempty"`
	HrName       []string   `json:"hrName,omitempty"` // visibility tags for restricted-role owners
	CreatedAt    string     `json:"createdAt,omitempty"`
}

// QuestionCount returns the embedded question total.
func (t *Test) QuestionCount() int {
	return len(t.Questions)
}

// OwnedBy reports whether the test is tagged for the given full name.
// Ownership matching is an exact, case-sensitive string match.
func (t *Test) OwnedBy(fullName string) bool {
	for _, name := range t.HrName {
		if name == fullName {
			return true
		}
	}
	return false
}
