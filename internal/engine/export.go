package engine

import (
	"encoding/json"
	"time"

	"advisor/internal/model"
)

// ExportModelState produces a plain snapshot of the whole state. Derived
// fields are included for human readers but are recomputed, never trusted, on
// import.
func ExportModelState(state model.ModelState) model.Snapshot {
	snap := model.Snapshot{
		GeneratedAt:  time.Now().UTC(),
		CrossSignals: state.Clone().CrossSignals,
		Topics:       make([]model.TopicSnapshot, 0, len(state.Topics)),
	}
	if state.CompanyData != nil {
		cd := state.CompanyData.Clone()
		snap.CompanyData = &cd
	}

	for _, t := range state.Topics {
		ts := model.TopicSnapshot{
			ID:            t.ID,
			Name:          t.Name,
			CompletionPct: t.CompletionPct,
			ReadyToModel:  t.ReadyToModel,
			Narrative:     t.Narrative,
			KeyQuestions:  make([]model.QuestionSnapshot, 0, len(t.KeyQuestions)),
		}
		for _, q := range t.KeyQuestions {
			ts.KeyQuestions = append(ts.KeyQuestions, model.QuestionSnapshot{
				ID:        q.ID,
				Text:      q.Text,
				Required:  q.Required,
				Satisfied: q.Satisfied,
				Evidence:  append([]model.Evidence(nil), q.Evidence...),
			})
		}
		snap.Topics = append(snap.Topics, ts)
	}
	return snap
}

// ImportModelState restores a state from a serialized snapshot. It fails
// closed: structurally invalid input (bad JSON, or a missing/non-sequence
// topics field) yields nil rather than an error. Absent fields are defaulted
// and every derived field is recomputed, so hand-edited or stale exports
// cannot smuggle in wrong completion values.
func ImportModelState(raw []byte) *model.ModelState {
	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil
	}
	if snap.Topics == nil {
		return nil
	}

	state := model.ModelState{
		ActiveTopicID:        snap.ActiveTopicID,
		CompanyData:          snap.CompanyData,
		CrossSignals:         snap.CrossSignals,
		ConsecutiveFollowups: snap.ConsecutiveFollowups,
		Topics:               make([]model.Topic, 0, len(snap.Topics)),
	}
	if state.CrossSignals == nil {
		state.CrossSignals = map[string]model.CrossSignal{}
	}

	for _, ts := range snap.Topics {
		t := model.Topic{
			ID:        ts.ID,
			Name:      ts.Name,
			Narrative: ts.Narrative,
		}
		for _, qs := range ts.KeyQuestions {
			t.KeyQuestions = append(t.KeyQuestions, model.KeyQuestion{
				ID:       qs.ID,
				Text:     qs.Text,
				Required: qs.Required,
				Evidence: append([]model.Evidence(nil), qs.Evidence...),
			})
		}
		state.Topics = append(state.Topics, t)
	}

	if state.ActiveTopicID == "" || state.TopicByID(state.ActiveTopicID) == nil {
		if len(state.Topics) > 0 {
			state.ActiveTopicID = state.Topics[0].ID
		}
	}

	restored := RecomputeAll(state)
	return &restored
}
