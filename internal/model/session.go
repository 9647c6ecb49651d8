package model

import "time"

// Session is one advisory conversation and its elicitation state.
type Session struct {
	ID        string     `json:"id" bson:"_id"`
	OutlineID string     `json:"outlineId,omitempty" bson:"outlineId,omitempty"`
	State     ModelState `json:"state" bson:"state"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Outline is a stored topic/question outline (the prompt library entry the
// schema parser consumes).
type Outline struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// CreateSessionRequest is the request body for creating a session.
type CreateSessionRequest struct {
	OutlineID   string       `json:"outlineId,omitempty"`
	CompanyData *CompanyData `json:"companyData,omitempty"`
}

// MessageRequest is the request body for an advisory chat message.
type MessageRequest struct {
	Text    string `json:"text"`
	TopicID string `json:"topicId,omitempty"` // defaults to the session's active topic
}

// TopicProgress is the per-topic progress summary pushed to the UI.
type TopicProgress struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CompletionPct int    `json:"completionPct"`
	ReadyToModel  bool   `json:"readyToModel"`
	Narrative     string `json:"narrative,omitempty"`
}

// MessageResponse is the reply to an advisory chat message.
type MessageResponse struct {
	Reply                string          `json:"reply"`
	NextQuestion         NextQuestion    `json:"nextQuestion"`
	Topics               []TopicProgress `json:"topics"`
	ConsecutiveFollowups int             `json:"consecutiveFollowups"`
}
