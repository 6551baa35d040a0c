package models

// QuestionType is the closed set of question formats supported by the test
// library. Matching on this type should be exhaustive so that a new format
// fails loudly instead of falling into a default branch.
type QuestionType string

const (
	TypeSingleSelect   QuestionType = "SingleSelect"
	TypeMultipleSelect QuestionType = "MultipleSelect"
	TypeEssay          QuestionType = "Essay"
	TypeCoding         QuestionType = "Coding"
	TypeFillup         QuestionType = "Fillup"
	TypeTrueFalse      QuestionType = "True/False"
	TypeYesNo          QuestionType = "Yes/No"
	TypeMatchFollowing QuestionType = "match-following"
	TypeImage          QuestionType = "Image"
	TypeAudio          QuestionType = "audio-based"
	TypeDiscRanking    QuestionType = "disc-ranking"
	TypeDiscBehavioral QuestionType = "disc-behavioral"
	TypeDisc           QuestionType = "Disc"
)

// IsDiscFamily reports whether the type belongs to the DISC personality
// family. Answers for these are never auto-preselected or validated.
func (t QuestionType) IsDiscFamily() bool {
	switch t {
	case TypeDisc, TypeDiscRanking, TypeDiscBehavioral:
		return true
	case TypeSingleSelect, TypeMultipleSelect, TypeEssay, TypeCoding, TypeFillup,
		TypeTrueFalse, TypeYesNo, TypeMatchFollowing, TypeImage, TypeAudio:
		return false
	}
	return false
}

// HasKeyedAnswer reports whether the answer must reference option keys.
func (t QuestionType) HasKeyedAnswer() bool {
	switch t {
	case TypeSingleSelect, TypeMultipleSelect, TypeTrueFalse, TypeYesNo:
		return true
	case TypeEssay, TypeCoding, TypeFillup, TypeMatchFollowing, TypeImage,
		TypeAudio, TypeDisc, TypeDiscRanking, TypeDiscBehavioral:
		return false
	}
	return false
}

// Question is an item in a test or the shared question bank. Options are a
// keyed map (Option1..OptionN); the key order is significant for display.
// Answer shape depends on Type: a single key, a CSV of keys, free text, or a
// structured map for the DISC family.
type Question struct {
	ID               string            `json:"id"`
	Text             string            `json:"question"`
	Type             QuestionType      `json:"type"`
	Options          map[string]string `json:"options,omitempty"`
	Answer           any               `json:"answer,omitempty"`
	Score            int               `json:"score,omitempty"`
	TimeLimitSeconds int               `json:"timeLimit,omitempty"`
	Skills           []string          `json:"skills,omitempty"`
	Category         string            `json:"category,omitempty"`
	Image            string            `json:"image,omitempty"`
}
