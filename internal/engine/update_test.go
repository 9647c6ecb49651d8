package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisor/internal/model"
)

func defaultState() model.ModelState {
	return NewState(ParseTopicsFromPrompt(DefaultOutline))
}

func findQuestion(t *testing.T, state model.ModelState, topicID, idPrefix string) model.KeyQuestion {
	t.Helper()
	topic := state.TopicByID(topicID)
	require.NotNil(t, topic)
	for _, q := range topic.KeyQuestions {
		if strings.HasPrefix(q.ID, idPrefix) {
			return q
		}
	}
	t.Fatalf("no question with prefix %q in topic %q", idPrefix, topicID)
	return model.KeyQuestion{}
}

func TestUpdateTargetsPriceQuestion(t *testing.T) {
	state := defaultState()

	next := UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "revenue",
		UserMessage:   "$49.99 per order",
	})

	q := findQuestion(t, next, "revenue", "rev_price_or_aov")
	require.True(t, q.Satisfied)

	var priceEv, rawEv *model.Evidence
	for i, ev := range q.Evidence {
		switch ev.Key {
		case KeyPriceOrAOV:
			priceEv = &q.Evidence[i]
		case KeyRawText:
			rawEv = &q.Evidence[i]
		}
	}
	require.NotNil(t, priceEv)
	assert.Equal(t, 49.99, priceEv.Value)
	assert.Equal(t, 0.8, priceEv.Confidence)
	assert.Equal(t, model.SourceUserMessage, priceEv.Source)

	require.NotNil(t, rawEv)
	assert.Equal(t, "$49.99 per order", rawEv.Value)
	assert.Equal(t, 0.6, rawEv.Confidence)

	assert.Equal(t, q.ID, next.LastAskedQuestionID)
}

func TestUpdateDoesNotMutateInputState(t *testing.T) {
	state := defaultState()

	_ = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "revenue",
		UserMessage:   "$49.99 per order",
	})

	q := findQuestion(t, state, "revenue", "rev_price_or_aov")
	assert.Empty(t, q.Evidence, "input state was mutated")
	assert.Empty(t, state.CrossSignals)
}

func TestUpdateCrossSignalsLastWriteWins(t *testing.T) {
	state := defaultState()

	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "business_model",
		UserMessage:   "we charge a subscription",
	})
	assert.Equal(t, "subscription", state.CrossSignals[SignalRevenueModel].Value)

	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "business_model",
		UserMessage:   "actually mostly one-time deals",
	})
	assert.Equal(t, "transactional", state.CrossSignals[SignalRevenueModel].Value)
}

func TestUpdateRecordsSignalOriginTopic(t *testing.T) {
	state := defaultState()

	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "cogs",
		UserMessage:   "COGS is about 35% of revenue",
	})
	sig, ok := state.CrossSignals[SignalPercentage]
	require.True(t, ok)
	assert.Equal(t, "cogs", sig.TopicID)
	assert.Equal(t, 35.0, sig.Value)
}

func TestUpdateHintsTakePriority(t *testing.T) {
	state := defaultState()

	next := UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "customer_acquisition",
		UserMessage:   "around $320",
		CrossHints:    map[string][]string{"customer_acquisition": {"ca_paid_spend"}},
	})

	// Without the hint the priority list would have picked ca_cac first.
	q := findQuestion(t, next, "customer_acquisition", "ca_paid_spend")
	assert.NotEmpty(t, q.Evidence)
	assert.Equal(t, q.ID, next.LastAskedQuestionID)
}

func TestUpdateKeywordFallback(t *testing.T) {
	outline := "## Custom\n- Anything about retention churn here? (req)\n- Something else entirely (req)"
	state := NewState(ParseTopicsFromPrompt(outline))

	next := UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "custom",
		UserMessage:   "our churn is brutal",
	})

	q := findQuestion(t, next, "custom", "anything_about_retention_churn")
	assert.NotEmpty(t, q.Evidence)
}

func TestUpdateFallsBackToFirstUnmetRequired(t *testing.T) {
	outline := "## Misc\n- First open point (req)\n- Second open point (req)"
	state := NewState(ParseTopicsFromPrompt(outline))

	next := UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "misc",
		UserMessage:   "totally unrelated rambling",
	})

	q := findQuestion(t, next, "misc", "first_open_point")
	require.Len(t, q.Evidence, 1)
	assert.Equal(t, KeyRawText, q.Evidence[0].Key)
	assert.Equal(t, 1, next.ConsecutiveFollowups)
}

func TestUpdateWithNoUnmetQuestionAttachesNothing(t *testing.T) {
	outline := "## Done\n- only question (req)"
	state := NewState(ParseTopicsFromPrompt(outline))
	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "done",
		UserMessage:   "we charge a subscription of $20",
	})
	require.True(t, state.Topics[0].KeyQuestions[0].Satisfied)
	before := len(state.Topics[0].KeyQuestions[0].Evidence)

	next := UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "done",
		UserMessage:   "more talk",
	})
	assert.Len(t, next.Topics[0].KeyQuestions[0].Evidence, before)
	assert.Equal(t, 0, next.ConsecutiveFollowups)
}

func TestConsecutiveFollowupCounter(t *testing.T) {
	state := defaultState()

	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "revenue", UserMessage: "we charge $10",
	})
	assert.Equal(t, 1, state.ConsecutiveFollowups)

	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "revenue", UserMessage: "about 200 orders",
	})
	assert.Equal(t, 2, state.ConsecutiveFollowups)

	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "cogs", UserMessage: "COGS is 30%",
	})
	assert.Equal(t, 1, state.ConsecutiveFollowups)
}

func TestConsecutiveFollowupsSurviveUnknownTopicID(t *testing.T) {
	state := defaultState()

	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "revenue", UserMessage: "we charge $10",
	})
	require.Equal(t, 1, state.ConsecutiveFollowups)

	// An unknown id leaves the active topic alone, so the counter keeps
	// climbing instead of resetting.
	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "no_such_topic", UserMessage: "still talking revenue",
	})
	assert.Equal(t, "revenue", state.ActiveTopicID)
	assert.Equal(t, 2, state.ConsecutiveFollowups)
}

func TestUpdateSatisfiesVolumeFromRoundNumber(t *testing.T) {
	state := defaultState()

	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "revenue", UserMessage: "we charge $50.00 per order",
	})
	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "revenue", UserMessage: "we do about 100 orders each month",
	})

	q := findQuestion(t, state, "revenue", "rev_volume_driver")
	require.True(t, q.Satisfied)

	var volEv *model.Evidence
	for i, ev := range q.Evidence {
		if ev.Key == KeyVolume {
			volEv = &q.Evidence[i]
		}
	}
	require.NotNil(t, volEv)
	assert.Equal(t, 100.0, volEv.Value)
}

func TestUpdateReplacesCompanyData(t *testing.T) {
	state := defaultState()

	next := UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "revenue",
		UserMessage:   "hello",
		CompanyData:   &model.CompanyData{RevenueModel: "subscription"},
	})
	require.NotNil(t, next.CompanyData)
	assert.Equal(t, "subscription", next.CompanyData.RevenueModel)
	assert.Nil(t, state.CompanyData)
}

func TestBuildNextQuestion(t *testing.T) {
	state := defaultState()
	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "revenue",
		UserMessage:   "$49.99 per order",
	})

	next := BuildNextQuestion(state, "revenue")
	assert.Contains(t, next.Text, "price/AOV $49.99")
	assert.Contains(t, next.Text, "Rev volume driver")
	require.Len(t, next.UnmetList, 2)

	// Unknown topic yields an empty prompt.
	assert.Empty(t, BuildNextQuestion(state, "nope").Text)
}

func TestBuildNextQuestionOffersToMoveOn(t *testing.T) {
	state := NewState(ParseTopicsFromPrompt("## Short\n- one thing (req)"))
	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "short",
		UserMessage:   "we make $1,500 per deal",
	})

	next := BuildNextQuestion(state, "short")
	assert.Empty(t, next.UnmetList)
	assert.Contains(t, next.Text, "move on")
}

func TestUnmetQuestions(t *testing.T) {
	state := defaultState()
	topic := state.TopicByID("revenue")
	require.NotNil(t, topic)

	unmet := UnmetQuestions(*topic)
	assert.Len(t, unmet, 3)
	for _, text := range unmet {
		assert.NotContains(t, text, "(req)")
	}
}
