package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisor/internal/model"
)

func questionWith(ev ...model.Evidence) model.KeyQuestion {
	return model.KeyQuestion{ID: "q", Text: "q", Required: true, Evidence: ev}
}

func TestSatisfiedThresholdBoundary(t *testing.T) {
	below := RecomputeQuestion(questionWith(model.Evidence{
		Source: model.SourceUserMessage, Key: "price_or_aov", Value: 49.99, Confidence: 0.69,
	}))
	assert.False(t, below.Satisfied)

	at := RecomputeQuestion(questionWith(model.Evidence{
		Source: model.SourceUserMessage, Key: "price_or_aov", Value: 49.99, Confidence: 0.7,
	}))
	assert.True(t, at.Satisfied)
}

func TestSatisfiedRequiresUsableValue(t *testing.T) {
	blank := RecomputeQuestion(questionWith(model.Evidence{
		Source: model.SourceUserMessage, Key: "raw_text", Value: "   ", Confidence: 0.9,
	}))
	assert.False(t, blank.Satisfied)

	null := RecomputeQuestion(questionWith(model.Evidence{
		Source: model.SourceUserMessage, Key: "raw_text", Value: nil, Confidence: 0.9,
	}))
	assert.False(t, null.Satisfied)

	boolean := RecomputeQuestion(questionWith(model.Evidence{
		Source: model.SourceUserMessage, Key: "mentions_churn", Value: true, Confidence: 0.7,
	}))
	assert.True(t, boolean.Satisfied)
}

func TestCompletionBounds(t *testing.T) {
	state := NewState(ParseTopicsFromPrompt(DefaultOutline))
	for _, tp := range state.Topics {
		assert.GreaterOrEqual(t, tp.CompletionPct, 0)
		assert.LessOrEqual(t, tp.CompletionPct, 100)
	}
}

func TestCompletionWithZeroRequiredQuestions(t *testing.T) {
	topic := RecomputeTopic(model.Topic{
		ID: "t", Name: "T",
		KeyQuestions: []model.KeyQuestion{{ID: "q", Text: "q", Required: false}},
	})
	assert.Equal(t, 100, topic.CompletionPct)
	assert.True(t, topic.ReadyToModel)
}

func TestReadyToModelRequiresAllRequiredSatisfied(t *testing.T) {
	good := model.Evidence{Source: model.SourceUserMessage, Key: "k", Value: "v", Confidence: 0.8}
	topic := model.Topic{
		ID: "t", Name: "T",
		KeyQuestions: []model.KeyQuestion{
			{ID: "a", Text: "a", Required: true, Evidence: []model.Evidence{good}},
			{ID: "b", Text: "b", Required: true},
		},
	}

	half := RecomputeTopic(topic)
	assert.Equal(t, 50, half.CompletionPct)
	assert.False(t, half.ReadyToModel)

	topic.KeyQuestions[1].Evidence = []model.Evidence{good}
	full := RecomputeTopic(topic)
	assert.Equal(t, 100, full.CompletionPct)
	assert.True(t, full.ReadyToModel)
}

func TestRecomputeAllIsIdempotent(t *testing.T) {
	state := NewState(ParseTopicsFromPrompt(DefaultOutline))
	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "revenue",
		UserMessage:   "$49.99 per order, subscription model, 25% churn",
	})

	once := RecomputeAll(state)
	twice := RecomputeAll(once)
	require.Equal(t, once, twice)
}

func TestRecomputeAllDoesNotMutateInput(t *testing.T) {
	state := NewState(ParseTopicsFromPrompt("## T\n- q (req)"))
	state.Topics[0].KeyQuestions[0].Evidence = []model.Evidence{
		{Source: model.SourceUserMessage, Key: "k", Value: "v", Confidence: 0.9},
	}

	_ = RecomputeAll(state)
	assert.False(t, state.Topics[0].KeyQuestions[0].Satisfied, "input state was mutated")
}

func TestSetActiveTopic(t *testing.T) {
	state := NewState(ParseTopicsFromPrompt(DefaultOutline))

	unchanged := SetActiveTopic(state, "no_such_topic")
	assert.Equal(t, state, unchanged)

	switched := SetActiveTopic(state, "cogs")
	assert.Equal(t, "cogs", switched.ActiveTopicID)
	assert.Equal(t, "business_model", state.ActiveTopicID)
}
