package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisor/internal/model"
)

func evidenced(id string, ev ...model.Evidence) model.Topic {
	return model.Topic{
		ID: id, Name: id,
		KeyQuestions: []model.KeyQuestion{{ID: "q", Text: "q", Evidence: ev}},
	}
}

func TestComposeNarrativeBusinessModel(t *testing.T) {
	topic := evidenced("business_model",
		model.Evidence{Source: model.SourceUserMessage, Key: KeyRevenueModel, Value: "subscription", Confidence: 0.8},
		model.Evidence{Source: model.SourceUserMessage, Key: KeyLeadSource, Value: "paid", Confidence: 0.8},
	)

	out := ComposeNarrative(topic)
	assert.Contains(t, out.Narrative, "subscription")
	assert.Contains(t, out.Narrative, "paid")
}

func TestComposeNarrativeRevenue(t *testing.T) {
	topic := evidenced("revenue",
		model.Evidence{Source: model.SourceUserMessage, Key: KeyPriceOrAOV, Value: 49.99, Confidence: 0.8},
		model.Evidence{Source: model.SourceUserMessage, Key: KeySalesCycleMonths, Value: 3.0, Confidence: 0.8},
	)

	out := ComposeNarrative(topic)
	assert.Contains(t, out.Narrative, "$49.99")
	assert.Contains(t, out.Narrative, "3 months")
}

func TestComposeNarrativeCogs(t *testing.T) {
	topic := evidenced("cogs",
		model.Evidence{Source: model.SourceExternalData, Key: KeyCogsPct, Value: 30.0, Confidence: 0.9},
	)

	out := ComposeNarrative(topic)
	assert.Contains(t, out.Narrative, "30%")
}

func TestComposeNarrativeUnknownTopicUnchanged(t *testing.T) {
	topic := evidenced("working_capital",
		model.Evidence{Source: model.SourceUserMessage, Key: KeyPriceOrAOV, Value: 10.0, Confidence: 0.8},
	)
	topic.Narrative = "previous narrative"

	out := ComposeNarrative(topic)
	assert.Equal(t, topic, out)
}

func TestComposeNarrativeNoHintsKeepsPrevious(t *testing.T) {
	topic := evidenced("revenue",
		model.Evidence{Source: model.SourceUserMessage, Key: KeyRawText, Value: "hello", Confidence: 0.6},
	)
	topic.Narrative = "previous narrative"

	out := ComposeNarrative(topic)
	assert.Equal(t, "previous narrative", out.Narrative)
}

func TestComposeNarrativeStable(t *testing.T) {
	topic := evidenced("cogs",
		model.Evidence{Source: model.SourceExternalData, Key: KeyCogsPct, Value: 30.0, Confidence: 0.9},
	)

	once := ComposeNarrative(topic)
	twice := ComposeNarrative(once)
	assert.Equal(t, once, twice)
}

func TestRefreshNarrativesRecordsSummaryFacts(t *testing.T) {
	state := defaultState()
	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "revenue",
		UserMessage:   "$49.99 per order with a 3 month sales cycle",
	})

	refreshed := RefreshNarratives(state)
	topic := refreshed.TopicByID("revenue")
	require.NotNil(t, topic)
	assert.NotEmpty(t, topic.Narrative)
	assert.Equal(t, 49.99, topic.SummaryFacts[KeyPriceOrAOV])
}
