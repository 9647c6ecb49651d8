package engine

import (
	"fmt"
	"strings"

	"advisor/internal/model"
)

// narrativeHints are the evidence-derived facts the composer can phrase.
type narrativeHints struct {
	revenueModel string
	leadSource   string
	price        *float64
	pct          *float64
	cycleMonths  *float64
	cycleDays    *float64
}

func collectNarrativeHints(t model.Topic) narrativeHints {
	var h narrativeHints
	if v, ok := firstString(t, KeyRevenueModel); ok {
		h.revenueModel = v
	}
	if v, ok := firstString(t, KeyLeadSource); ok {
		h.leadSource = v
	}
	if v, ok := firstNumeric(t, KeyPriceOrAOV); ok {
		h.price = &v
	}
	if v, ok := firstNumeric(t, KeyCogsPct, KeyPercentage); ok {
		h.pct = &v
	}
	if v, ok := firstNumeric(t, KeySalesCycleMonths); ok {
		h.cycleMonths = &v
	} else if v, ok := firstNumeric(t, KeySalesCycleDays); ok {
		h.cycleDays = &v
	}
	return h
}

func (h narrativeHints) empty() bool {
	return h.revenueModel == "" && h.leadSource == "" &&
		h.price == nil && h.pct == nil && h.cycleMonths == nil && h.cycleDays == nil
}

// ComposeNarrative builds a one-sentence synthesis for the known topic ids
// (business_model, revenue, cogs) from the topic's evidence. Any other topic
// id, or a topic whose evidence yields no hints, keeps its previous narrative;
// in that case the input topic is returned unchanged.
func ComposeNarrative(t model.Topic) model.Topic {
	h := collectNarrativeHints(t)
	if h.empty() {
		return t
	}

	var narrative string
	switch t.ID {
	case "business_model":
		var parts []string
		if h.revenueModel != "" {
			parts = append(parts, fmt.Sprintf("Sells on a %s model", h.revenueModel))
		}
		if h.leadSource != "" {
			parts = append(parts, fmt.Sprintf("leads come mainly from %s channels", h.leadSource))
		}
		narrative = strings.Join(parts, "; ")
	case "revenue":
		var parts []string
		if h.price != nil {
			parts = append(parts, fmt.Sprintf("Pricing around $%.2f", *h.price))
		}
		if h.cycleMonths != nil {
			parts = append(parts, fmt.Sprintf("sales cycle about %.0f months", *h.cycleMonths))
		} else if h.cycleDays != nil {
			parts = append(parts, fmt.Sprintf("sales cycle about %.0f days", *h.cycleDays))
		}
		if h.revenueModel != "" {
			parts = append(parts, fmt.Sprintf("%s revenue", h.revenueModel))
		}
		narrative = strings.Join(parts, "; ")
	case "cogs":
		if h.pct != nil {
			narrative = fmt.Sprintf("Cost of goods runs about %.0f%% of revenue", *h.pct)
		}
	default:
		return t
	}

	if narrative == "" {
		return t
	}
	narrative += "."
	if narrative == t.Narrative {
		return t
	}

	out := t.Clone()
	out.Narrative = narrative
	return out
}

// RefreshNarratives recomposes every topic's narrative and records the
// underlying hints into SummaryFacts. Topics with nothing to say are left as
// they were.
func RefreshNarratives(state model.ModelState) model.ModelState {
	out := state.Clone()
	for i, t := range out.Topics {
		composed := ComposeNarrative(t)
		if composed.Narrative != t.Narrative {
			composed.SummaryFacts = summaryFacts(composed)
		}
		out.Topics[i] = composed
	}
	return out
}

func summaryFacts(t model.Topic) map[string]interface{} {
	h := collectNarrativeHints(t)
	facts := map[string]interface{}{}
	if h.revenueModel != "" {
		facts[KeyRevenueModel] = h.revenueModel
	}
	if h.leadSource != "" {
		facts[KeyLeadSource] = h.leadSource
	}
	if h.price != nil {
		facts[KeyPriceOrAOV] = *h.price
	}
	if h.pct != nil {
		facts[KeyPercentage] = *h.pct
	}
	if h.cycleMonths != nil {
		facts[KeySalesCycleMonths] = *h.cycleMonths
	}
	if h.cycleDays != nil {
		facts[KeySalesCycleDays] = *h.cycleDays
	}
	if len(facts) == 0 {
		return t.SummaryFacts
	}
	return facts
}
