package engine

import (
	"math"
	"strings"

	"advisor/internal/model"
)

// SatisfactionThreshold is the minimum evidence confidence that can satisfy a
// key question.
const SatisfactionThreshold = 0.7

// readinessBar is the completion ratio a topic must reach to be ready for
// modeling. All required questions being satisfied already forces a ratio of
// 1.0, so this clause is redundant under correct evidence; both clauses are
// kept so behavior matches the readiness rule exactly.
const readinessBar = 0.8

// usableValue reports whether an evidence value counts: non-nil and, for
// strings, non-blank.
func usableValue(v interface{}) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// numericValue converts an evidence value to a float64 when possible.
func numericValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// RecomputeQuestion derives the satisfied flag: at least one evidence entry
// with a usable value and sufficient confidence.
func RecomputeQuestion(q model.KeyQuestion) model.KeyQuestion {
	out := q.Clone()
	out.Satisfied = false
	for _, ev := range out.Evidence {
		if usableValue(ev.Value) && ev.Confidence >= SatisfactionThreshold {
			out.Satisfied = true
			break
		}
	}
	return out
}

// ComputeTopicCompletion derives CompletionPct and ReadyToModel from the
// topic's required questions. A topic with no required questions is complete
// by definition.
func ComputeTopicCompletion(t model.Topic) model.Topic {
	out := t.Clone()
	required, satisfied := 0, 0
	for _, q := range out.KeyQuestions {
		if !q.Required {
			continue
		}
		required++
		if q.Satisfied {
			satisfied++
		}
	}

	completion := 1.0
	if required > 0 {
		completion = float64(satisfied) / float64(required)
	}
	out.CompletionPct = int(math.Round(completion * 100))
	out.ReadyToModel = completion >= readinessBar && satisfied == required
	return out
}

// RecomputeTopic recomputes every question's satisfied flag, then the topic's
// completion.
func RecomputeTopic(t model.Topic) model.Topic {
	out := t.Clone()
	for i, q := range out.KeyQuestions {
		out.KeyQuestions[i] = RecomputeQuestion(q)
	}
	return ComputeTopicCompletion(out)
}

// RecomputeAll recomputes derived fields across the whole state. Idempotent:
// applying it twice yields the same result as applying it once.
func RecomputeAll(state model.ModelState) model.ModelState {
	out := state.Clone()
	for i, t := range out.Topics {
		out.Topics[i] = RecomputeTopic(t)
	}
	return out
}

// SetActiveTopic switches the active topic. Unknown ids are a no-op: the same
// state is returned unchanged.
func SetActiveTopic(state model.ModelState, id string) model.ModelState {
	if state.TopicByID(id) == nil {
		return state
	}
	out := state.Clone()
	out.ActiveTopicID = id
	return out
}
