package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"advisor/internal/model"
)

func TestDeriveHintsPaidLeadSource(t *testing.T) {
	hints := DeriveCrossTopicHints(map[string]model.CrossSignal{
		SignalLeadSource: {Value: "paid", Source: model.SourceUserMessage},
	})
	assert.Equal(t, []string{"ca_cac", "ca_paid_spend"}, hints["customer_acquisition"])
}

func TestDeriveHintsSubscriptionOrChurn(t *testing.T) {
	hints := DeriveCrossTopicHints(map[string]model.CrossSignal{
		SignalRevenueModel: {Value: "subscription"},
	})
	assert.Equal(t, []string{"rev_cycle_or_churn"}, hints["revenue"])

	hints = DeriveCrossTopicHints(map[string]model.CrossSignal{
		SignalMentionsChurn: {Value: true},
	})
	assert.Equal(t, []string{"rev_cycle_or_churn"}, hints["revenue"])
}

func TestDeriveHintsMentionsCACOverwritesPaidRule(t *testing.T) {
	// Later rules overwrite earlier ones that target the same topic.
	hints := DeriveCrossTopicHints(map[string]model.CrossSignal{
		SignalLeadSource:  {Value: "paid"},
		SignalMentionsCAC: {Value: true},
	})
	assert.Equal(t, []string{"ca_cac"}, hints["customer_acquisition"])
}

func TestDeriveHintsCogsPercentage(t *testing.T) {
	hints := DeriveCrossTopicHints(map[string]model.CrossSignal{
		SignalPercentage: {Value: 35.0, TopicID: "cogs"},
	})
	assert.Equal(t, []string{"wc_inventory_turns"}, hints["working_capital"])

	// A percentage observed elsewhere does not trigger the rule.
	hints = DeriveCrossTopicHints(map[string]model.CrossSignal{
		SignalPercentage: {Value: 35.0, TopicID: "revenue"},
	})
	assert.Empty(t, hints["working_capital"])
}

func TestDeriveHintsEmptyInput(t *testing.T) {
	assert.Empty(t, DeriveCrossTopicHints(nil))
	assert.Empty(t, DeriveCrossTopicHints(map[string]model.CrossSignal{}))
}
