package model

// EvidenceSource identifies where a piece of evidence came from
type EvidenceSource string

const (
	SourceExternalData EvidenceSource = "external_data" // hydrated from a company profile
	SourceUserMessage  EvidenceSource = "user_message"  // extracted from a chat answer
)

// Evidence is one sourced, confidence-scored observation supporting a key question.
// Evidence is append-only: entries are never edited or removed once attached, so a
// question carries its full audit trail.
type Evidence struct {
	Source     EvidenceSource `json:"source" bson:"source"`
	Key        string         `json:"key" bson:"key"`
	Value      interface{}    `json:"value" bson:"value"`           // string, number, bool or nil
	Confidence float64        `json:"confidence" bson:"confidence"` // 0-1
}

// KeyQuestion is an atomic fact the engine needs. Satisfied is derived from
// Evidence and must never be authored directly.
type KeyQuestion struct {
	ID        string     `json:"id" bson:"id"`
	Text      string     `json:"text" bson:"text"`
	Required  bool       `json:"required" bson:"required"`
	Evidence  []Evidence `json:"evidence" bson:"evidence"`
	Satisfied bool       `json:"satisfied" bson:"satisfied"` // derived
}

// Topic is a named group of key questions with derived completion state.
// CompletionPct, ReadyToModel and Narrative are derived, never authored.
type Topic struct {
	ID            string                 `json:"id" bson:"id"`
	Name          string                 `json:"name" bson:"name"`
	KeyQuestions  []KeyQuestion          `json:"keyQuestions" bson:"keyQuestions"`
	SummaryFacts  map[string]interface{} `json:"summaryFacts,omitempty" bson:"summaryFacts,omitempty"`
	Narrative     string                 `json:"narrative,omitempty" bson:"narrative,omitempty"`
	CompletionPct int                    `json:"completionPct" bson:"completionPct"` // 0-100, derived
	ReadyToModel  bool                   `json:"readyToModel" bson:"readyToModel"`   // derived
}

// CrossSignal holds the latest observed value of a named heuristic signal.
// Each new observation overwrites the prior one (last-write-wins, no history).
type CrossSignal struct {
	Value   interface{}    `json:"value" bson:"value"`
	Source  EvidenceSource `json:"source" bson:"source"`
	TopicID string         `json:"topicId,omitempty" bson:"topicId,omitempty"` // topic active when observed
}

// ModelState is the whole elicitation state for one advisory session.
// Every engine transform returns a new ModelState; inputs are never mutated.
type ModelState struct {
	Topics               []Topic                `json:"topics" bson:"topics"`
	ActiveTopicID        string                 `json:"activeTopicId" bson:"activeTopicId"`
	CrossSignals         map[string]CrossSignal `json:"crossSignals" bson:"crossSignals"`
	CompanyData          *CompanyData           `json:"companyData,omitempty" bson:"companyData,omitempty"`
	LastAskedQuestionID  string                 `json:"lastAskedQuestionId,omitempty" bson:"lastAskedQuestionId,omitempty"`
	ConsecutiveFollowups int                    `json:"consecutiveFollowups" bson:"consecutiveFollowups"`
}

// NextQuestion is the deterministic next prompt for a topic plus the unmet
// required questions, for UI display.
type NextQuestion struct {
	Text      string   `json:"text"`
	UnmetList []string `json:"unmetList"`
}

// Clone returns a deep copy of the evidence slice.
func cloneEvidence(ev []Evidence) []Evidence {
	if ev == nil {
		return nil
	}
	out := make([]Evidence, len(ev))
	copy(out, ev)
	return out
}

// Clone returns a deep copy of the question.
func (q KeyQuestion) Clone() KeyQuestion {
	out := q
	out.Evidence = cloneEvidence(q.Evidence)
	return out
}

// Clone returns a deep copy of the topic.
func (t Topic) Clone() Topic {
	out := t
	out.KeyQuestions = make([]KeyQuestion, len(t.KeyQuestions))
	for i, q := range t.KeyQuestions {
		out.KeyQuestions[i] = q.Clone()
	}
	if t.SummaryFacts != nil {
		out.SummaryFacts = make(map[string]interface{}, len(t.SummaryFacts))
		for k, v := range t.SummaryFacts {
			out.SummaryFacts[k] = v
		}
	}
	return out
}

// Clone returns a deep copy of the state.
func (s ModelState) Clone() ModelState {
	out := s
	out.Topics = make([]Topic, len(s.Topics))
	for i, t := range s.Topics {
		out.Topics[i] = t.Clone()
	}
	if s.CrossSignals != nil {
		out.CrossSignals = make(map[string]CrossSignal, len(s.CrossSignals))
		for k, v := range s.CrossSignals {
			out.CrossSignals[k] = v
		}
	}
	if s.CompanyData != nil {
		cd := s.CompanyData.Clone()
		out.CompanyData = &cd
	}
	return out
}

// TopicByID returns a pointer into s.Topics for the given id, or nil.
func (s *ModelState) TopicByID(id string) *Topic {
	for i := range s.Topics {
		if s.Topics[i].ID == id {
			return &s.Topics[i]
		}
	}
	return nil
}
