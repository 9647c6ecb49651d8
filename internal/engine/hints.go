package engine

import "advisor/internal/model"

// hintRule maps a condition over cross signals to follow-up priorities in
// another topic. Rules run in order and a later rule overwrites an earlier
// one that targets the same topic id (not merged) - a deliberate choice to
// keep the table simple; see DESIGN.md for the tradeoff.
type hintRule struct {
	applies func(map[string]model.CrossSignal) bool
	topicID string
	hints   []string
}

var hintRules = []hintRule{
	{
		applies: func(cs map[string]model.CrossSignal) bool {
			s, ok := cs[SignalLeadSource]
			return ok && s.Value == "paid"
		},
		topicID: "customer_acquisition",
		hints:   []string{"ca_cac", "ca_paid_spend"},
	},
	{
		applies: func(cs map[string]model.CrossSignal) bool {
			if s, ok := cs[SignalRevenueModel]; ok && s.Value == "subscription" {
				return true
			}
			s, ok := cs[SignalMentionsChurn]
			return ok && truthy(s.Value)
		},
		topicID: "revenue",
		hints:   []string{"rev_cycle_or_churn"},
	},
	{
		applies: func(cs map[string]model.CrossSignal) bool {
			s, ok := cs[SignalMentionsCAC]
			return ok && truthy(s.Value)
		},
		topicID: "customer_acquisition",
		hints:   []string{"ca_cac"},
	},
	{
		applies: func(cs map[string]model.CrossSignal) bool {
			s, ok := cs[SignalPercentage]
			return ok && s.TopicID == "cogs"
		},
		topicID: "working_capital",
		hints:   []string{"wc_inventory_turns"},
	},
}

// DeriveCrossTopicHints maps the current cross signals to follow-up question
// priorities in other topics. The returned hint ids are question-id prefixes.
func DeriveCrossTopicHints(crossSignals map[string]model.CrossSignal) map[string][]string {
	out := map[string][]string{}
	for _, rule := range hintRules {
		if rule.applies(crossSignals) {
			out[rule.topicID] = rule.hints
		}
	}
	return out
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return v != nil
}
