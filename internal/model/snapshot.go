package model

import "time"

// Snapshot is the export format for a whole ModelState. Derived fields
// (satisfied, completionPct, readyToModel) are included for readability but are
// never trusted on import; the importer always recomputes them.
type Snapshot struct {
	GeneratedAt          time.Time              `json:"generatedAt"`
	ActiveTopicID        string                 `json:"activeTopicId,omitempty"`
	CompanyData          *CompanyData           `json:"companyData,omitempty"`
	CrossSignals         map[string]CrossSignal `json:"crossSignals,omitempty"`
	ConsecutiveFollowups int                    `json:"consecutiveFollowups,omitempty"`
	Topics               []TopicSnapshot        `json:"topics"`
}

// TopicSnapshot is one topic in an exported snapshot.
type TopicSnapshot struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	CompletionPct int                `json:"completionPct"`
	ReadyToModel  bool               `json:"readyToModel"`
	Narrative     string             `json:"narrative,omitempty"`
	KeyQuestions  []QuestionSnapshot `json:"keyQuestions"`
}

// QuestionSnapshot is one key question in an exported snapshot.
type QuestionSnapshot struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Required  bool       `json:"required"`
	Satisfied bool       `json:"satisfied"`
	Evidence  []Evidence `json:"evidence"`
}
