package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportRoundTrip(t *testing.T) {
	state := defaultState()
	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "revenue",
		UserMessage:   "$49.99 per order on a subscription basis",
	})
	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "cogs",
		UserMessage:   "COGS is 30%",
	})

	raw, err := json.Marshal(ExportModelState(state))
	require.NoError(t, err)

	restored := ImportModelState(raw)
	require.NotNil(t, restored)

	want := RecomputeAll(state)
	require.Len(t, restored.Topics, len(want.Topics))
	for i, topic := range want.Topics {
		assert.Equal(t, topic.CompletionPct, restored.Topics[i].CompletionPct, topic.ID)
		assert.Equal(t, topic.ReadyToModel, restored.Topics[i].ReadyToModel, topic.ID)
		for j, q := range topic.KeyQuestions {
			assert.Equal(t, q.Satisfied, restored.Topics[i].KeyQuestions[j].Satisfied, q.ID)
		}
	}
}

func TestImportRecomputesInsteadOfTrusting(t *testing.T) {
	state := defaultState()
	snap := ExportModelState(state)

	// Hand-edit the snapshot to claim everything is done.
	for i := range snap.Topics {
		snap.Topics[i].CompletionPct = 100
		snap.Topics[i].ReadyToModel = true
		for j := range snap.Topics[i].KeyQuestions {
			snap.Topics[i].KeyQuestions[j].Satisfied = true
		}
	}
	raw, err := json.Marshal(snap)
	require.NoError(t, err)

	restored := ImportModelState(raw)
	require.NotNil(t, restored)
	for _, topic := range restored.Topics {
		if len(UnmetQuestions(topic)) == 0 {
			continue
		}
		assert.Less(t, topic.CompletionPct, 100, topic.ID)
		assert.False(t, topic.ReadyToModel, topic.ID)
	}
}

func TestImportDefaultsAbsentFields(t *testing.T) {
	restored := ImportModelState([]byte(`{"topics":[{"id":"t","name":"T","keyQuestions":[{"id":"q","text":"q","required":true}]}]}`))

	require.NotNil(t, restored)
	assert.Equal(t, "t", restored.ActiveTopicID)
	assert.NotNil(t, restored.CrossSignals)
	assert.Nil(t, restored.CompanyData)
	assert.Equal(t, 0, restored.ConsecutiveFollowups)
	assert.Equal(t, 0, restored.Topics[0].CompletionPct)
}

func TestImportFailsClosed(t *testing.T) {
	assert.Nil(t, ImportModelState([]byte(`not json`)))
	assert.Nil(t, ImportModelState([]byte(`{}`)))
	assert.Nil(t, ImportModelState([]byte(`{"topics":42}`)))
	assert.Nil(t, ImportModelState([]byte(`{"generatedAt":"2026-01-01T00:00:00Z"}`)))

	// An empty topic list is structurally valid.
	restored := ImportModelState([]byte(`{"topics":[]}`))
	require.NotNil(t, restored)
	assert.Empty(t, restored.Topics)
}

func TestExportCarriesEvidenceVerbatim(t *testing.T) {
	state := defaultState()
	state = UpdateStateFromUserMessage(state, UpdateInput{
		ActiveTopicID: "revenue",
		UserMessage:   "$49.99 per order",
	})

	snap := ExportModelState(state)
	var found bool
	for _, topic := range snap.Topics {
		for _, q := range topic.KeyQuestions {
			for _, ev := range q.Evidence {
				if ev.Key == KeyRawText && ev.Value == "$49.99 per order" {
					found = true
				}
			}
		}
	}
	assert.True(t, found, "raw_text audit evidence missing from export")
	assert.False(t, snap.GeneratedAt.IsZero())
}
