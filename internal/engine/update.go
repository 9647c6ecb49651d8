package engine

import (
	"fmt"
	"regexp"
	"strings"

	"advisor/internal/model"
)

// Evidence confidence levels used by the update flow.
const (
	confidenceSignal  = 0.8 // numeric and categorical signals
	confidenceMention = 0.7 // boolean mention flags
	confidenceRawText = 0.6 // raw message audit trail
)

// Evidence keys written by targeting and hydration. The narrative composer,
// next-question builder and projection engine read the same vocabulary.
const (
	KeyRevenueModel     = "revenue_model"
	KeyLeadSource       = "lead_source"
	KeyPriceOrAOV       = "price_or_aov"
	KeyVolume           = "volume"
	KeyPercentage       = "percentage"
	KeyCogsPct          = "cogs_pct"
	KeyCogsPerUnit      = "cogs_per_unit"
	KeySalesCycleMonths = "sales_cycle_months"
	KeySalesCycleDays   = "sales_cycle_days"
	KeyChurnRatePct     = "churn_rate_pct"
	KeyPayrollMonthly   = "payroll_monthly"
	KeyOpexMonthly      = "opex_monthly"
	KeyHeadcount        = "headcount"
	KeyCAC              = "cac"
	KeyDSODays          = "dso_days"
	KeyDPODays          = "dpo_days"
	KeyInventoryDays    = "inventory_days"
	KeyMentionsChurn    = "mentions_churn"
	KeyMentionsCAC      = "mentions_cac"
	KeyRawText          = "raw_text"
)

// UpdateInput carries one user answer into the update flow.
type UpdateInput struct {
	ActiveTopicID string
	UserMessage   string
	CompanyData   *model.CompanyData  // optional, replaces the stored profile
	CrossHints    map[string][]string // optional, from DeriveCrossTopicHints
}

// questionPriority is the fixed priority order of well-known question id
// prefixes used when no cross-topic hint applies. First unmet match wins.
var questionPriority = []string{
	"rev_price_or_aov",
	"rev_volume_driver",
	"rev_cycle_or_churn",
	"what_you_sell",
	"how_you_charge",
	"cogs_model",
	"cogs_components",
	"payroll_monthly",
	"current_headcount",
	"hiring_plan",
	"ca_cac",
	"ca_paid_spend",
	"ca_funnel",
	"opex_monthly",
}

// keywordRule pairs a user-message vocabulary with a question-text pattern.
// When the message matches, the first unmet question whose text matches is
// targeted. Rules are checked in order.
type keywordRule struct {
	message  *regexp.Regexp
	question *regexp.Regexp
}

var keywordFallback = []keywordRule{
	{regexp.MustCompile(`(?i)price|charge|arpu|aov|markup|\$`), regexp.MustCompile(`(?i)price|arpu|aov|markup|charge`)},
	{regexp.MustCompile(`(?i)volume|leads|orders|subscribers|subs|conversion`), regexp.MustCompile(`(?i)volume|leads|orders|subs|conversion`)},
	{regexp.MustCompile(`(?i)churn|cycle`), regexp.MustCompile(`(?i)churn|cycle`)},
	{regexp.MustCompile(`(?i)cogs|cost of goods|materials|fulfillment|fees`), regexp.MustCompile(`(?i)cogs|materials|fulfillment|fees`)},
	{regexp.MustCompile(`(?i)\bcac\b|acquisition|paid`), regexp.MustCompile(`(?i)cac|acquisition|paid`)},
	{regexp.MustCompile(`(?i)headcount|hiring|hire|team`), regexp.MustCompile(`(?i)headcount|hiring`)},
}

// UpdateStateFromUserMessage runs one turn of the elicitation loop: extract
// signals from the message, pick the unmet question the answer most likely
// addresses, append evidence to it, refresh cross signals (last-write-wins)
// and recompute all derived fields. The input state is never mutated.
func UpdateStateFromUserMessage(state model.ModelState, in UpdateInput) model.ModelState {
	next := state.Clone()
	if next.TopicByID(in.ActiveTopicID) != nil {
		next.ActiveTopicID = in.ActiveTopicID
	}
	// An unknown id does not switch topics, so it must not reset the counter.
	sameTopic := next.ActiveTopicID == state.ActiveTopicID
	if in.CompanyData != nil {
		cd := in.CompanyData.Clone()
		next.CompanyData = &cd
	}

	sig := ExtractSignals(in.UserMessage)

	topic := next.TopicByID(next.ActiveTopicID)
	var target *model.KeyQuestion
	if topic != nil {
		target = chooseTargetQuestion(topic, in.UserMessage, in.CrossHints[topic.ID])
	}

	if target != nil {
		target.Evidence = append(target.Evidence, buildEvidence(sig, target.ID, in.UserMessage)...)
		*topic = RecomputeTopic(*topic)
		next.LastAskedQuestionID = target.ID
		if sameTopic {
			next.ConsecutiveFollowups++
		} else {
			next.ConsecutiveFollowups = 1
		}
	} else {
		next.ConsecutiveFollowups = 0
	}

	recordCrossSignals(&next, sig)
	return RecomputeAll(next)
}

// chooseTargetQuestion picks the unmet question an answer most likely
// addresses, in strict priority order: cross-topic hints, the fixed priority
// list, the keyword fallback table, then the first unmet required question so
// every answer advances something. Nil when the topic has no unmet question.
func chooseTargetQuestion(topic *model.Topic, message string, hints []string) *model.KeyQuestion {
	unmet := func(q *model.KeyQuestion) bool { return !q.Satisfied }

	// a. Hinted questions, in hint-list order. Hints are id prefixes.
	for _, hint := range hints {
		for i := range topic.KeyQuestions {
			q := &topic.KeyQuestions[i]
			if unmet(q) && strings.HasPrefix(q.ID, hint) {
				return q
			}
		}
	}

	// b. Well-known question ids, in fixed priority order.
	for _, prefix := range questionPriority {
		for i := range topic.KeyQuestions {
			q := &topic.KeyQuestions[i]
			if unmet(q) && strings.HasPrefix(q.ID, prefix) {
				return q
			}
		}
	}

	// c. Keyword fallback against question text.
	for _, rule := range keywordFallback {
		if !rule.message.MatchString(message) {
			continue
		}
		for i := range topic.KeyQuestions {
			q := &topic.KeyQuestions[i]
			if unmet(q) && rule.question.MatchString(q.Text) {
				return q
			}
		}
	}

	// d. First unmet required question, regardless of topical relevance.
	for i := range topic.KeyQuestions {
		q := &topic.KeyQuestions[i]
		if unmet(q) && q.Required {
			return q
		}
	}
	return nil
}

// moneyKey maps the generic money signal to a typed evidence key based on the
// target question. This is the one place the schema/id coupling of the money
// heuristic lives.
func moneyKey(questionID string) string {
	switch {
	case strings.HasPrefix(questionID, "rev_price_or_aov"):
		return KeyPriceOrAOV
	case strings.HasPrefix(questionID, "rev_volume_driver"):
		return KeyVolume
	case strings.HasPrefix(questionID, "payroll_monthly"):
		return KeyPayrollMonthly
	case strings.HasPrefix(questionID, "opex_monthly"):
		return KeyOpexMonthly
	case strings.HasPrefix(questionID, "ca_cac"), strings.HasPrefix(questionID, "ca_paid_spend"):
		return KeyCAC
	case strings.HasPrefix(questionID, "wc_dso"):
		return KeyDSODays
	case strings.HasPrefix(questionID, "wc_dpo"):
		return KeyDPODays
	case strings.HasPrefix(questionID, "wc_inventory_turns"):
		return KeyInventoryDays
	}
	return "money_1"
}

// pctKey maps the percentage signal to a typed evidence key for COGS and churn
// questions; elsewhere it stays a generic percentage.
func pctKey(questionID string) string {
	switch {
	case strings.HasPrefix(questionID, "cogs_"):
		return KeyCogsPct
	case strings.HasPrefix(questionID, "rev_cycle_or_churn"):
		return KeyChurnRatePct
	}
	return KeyPercentage
}

// buildEvidence turns extracted signals into evidence entries for the target
// question. A weak raw_text entry is always appended so the question keeps an
// audit trail even when no structured signal matched.
func buildEvidence(sig model.ExtractedSignals, questionID, message string) []model.Evidence {
	var out []model.Evidence
	add := func(key string, value interface{}, confidence float64) {
		out = append(out, model.Evidence{
			Source:     model.SourceUserMessage,
			Key:        key,
			Value:      value,
			Confidence: confidence,
		})
	}

	if sig.RevenueModel != "" {
		add(KeyRevenueModel, sig.RevenueModel, confidenceSignal)
	}
	if sig.LeadSource != "" {
		add(KeyLeadSource, sig.LeadSource, confidenceSignal)
	}
	if sig.Money1 != nil {
		add(moneyKey(questionID), *sig.Money1, confidenceSignal)
	}
	if sig.Pct1 != nil {
		add(pctKey(questionID), *sig.Pct1, confidenceSignal)
	}
	if sig.SalesCycleMonths != nil {
		add(KeySalesCycleMonths, *sig.SalesCycleMonths, confidenceSignal)
	} else if sig.SalesCycleDays != nil {
		add(KeySalesCycleDays, *sig.SalesCycleDays, confidenceSignal)
	}
	if sig.MentionsChurn {
		add(KeyMentionsChurn, true, confidenceMention)
	}
	if sig.MentionsCAC {
		add(KeyMentionsCAC, true, confidenceMention)
	}

	add(KeyRawText, message, confidenceRawText)
	return out
}

// recordCrossSignals overwrites the current value of every extracted signal.
func recordCrossSignals(state *model.ModelState, sig model.ExtractedSignals) {
	if state.CrossSignals == nil {
		state.CrossSignals = map[string]model.CrossSignal{}
	}
	set := func(name string, value interface{}) {
		state.CrossSignals[name] = model.CrossSignal{
			Value:   value,
			Source:  model.SourceUserMessage,
			TopicID: state.ActiveTopicID,
		}
	}

	if sig.RevenueModel != "" {
		set(SignalRevenueModel, sig.RevenueModel)
	}
	if sig.LeadSource != "" {
		set(SignalLeadSource, sig.LeadSource)
	}
	if sig.Pct1 != nil {
		set(SignalPercentage, *sig.Pct1)
	}
	if sig.Money1 != nil {
		set(SignalMoney, *sig.Money1)
	}
	if sig.SalesCycleMonths != nil {
		set(SignalSalesCycleMonths, *sig.SalesCycleMonths)
	}
	if sig.SalesCycleDays != nil {
		set(SignalSalesCycleDays, *sig.SalesCycleDays)
	}
	if sig.MentionsChurn {
		set(SignalMentionsChurn, true)
	}
	if sig.MentionsCAC {
		set(SignalMentionsCAC, true)
	}
}

// UnmetQuestions returns the texts of all required, unsatisfied questions in
// the topic.
func UnmetQuestions(t model.Topic) []string {
	var out []string
	for _, q := range t.KeyQuestions {
		if q.Required && !q.Satisfied {
			out = append(out, q.Text)
		}
	}
	return out
}

// BuildNextQuestion summarizes up to three already-known facts as a lead-in,
// then asks the first unmet required question of the topic, or offers to move
// on when none remain. Read-only.
func BuildNextQuestion(state model.ModelState, topicID string) model.NextQuestion {
	topic := state.TopicByID(topicID)
	if topic == nil {
		return model.NextQuestion{}
	}

	facts := knownFacts(state, *topic)
	if len(facts) > 3 {
		facts = facts[:3]
	}

	var sb strings.Builder
	if len(facts) > 0 {
		sb.WriteString("So far I have: ")
		sb.WriteString(strings.Join(facts, ", "))
		sb.WriteString(". ")
	}

	unmet := UnmetQuestions(*topic)
	if len(unmet) > 0 {
		sb.WriteString(unmet[0])
	} else {
		sb.WriteString(fmt.Sprintf("We have covered %s. Want to move on to the next topic?", topic.Name))
	}

	return model.NextQuestion{Text: sb.String(), UnmetList: unmet}
}

// knownFacts collects short fact strings from company data and accumulated
// evidence, in a fixed order.
func knownFacts(state model.ModelState, topic model.Topic) []string {
	var facts []string
	cd := state.CompanyData

	if v, ok := firstNumeric(topic, KeyPriceOrAOV); ok {
		facts = append(facts, fmt.Sprintf("price/AOV $%.2f", v))
	} else if cd != nil && cd.AvgOrderValue != nil {
		facts = append(facts, fmt.Sprintf("price/AOV $%.2f", *cd.AvgOrderValue))
	} else if cd != nil && cd.ARPU != nil {
		facts = append(facts, fmt.Sprintf("ARPU $%.2f", *cd.ARPU))
	}

	if v, ok := firstNumeric(topic, KeyVolume); ok {
		facts = append(facts, fmt.Sprintf("volume %.0f/month", v))
	} else if cd != nil && cd.AvgMonthlyOrders != nil {
		facts = append(facts, fmt.Sprintf("volume %.0f/month", *cd.AvgMonthlyOrders))
	} else if cd != nil && cd.ActiveSubscribers != nil {
		facts = append(facts, fmt.Sprintf("%.0f active subscribers", *cd.ActiveSubscribers))
	}

	if v, ok := firstNumeric(topic, KeyCogsPct, KeyPercentage); ok {
		facts = append(facts, fmt.Sprintf("%.0f%%", v))
	}

	if v, ok := firstString(topic, KeyRevenueModel); ok {
		facts = append(facts, v+" model")
	} else if cd != nil && cd.RevenueModel != "" {
		facts = append(facts, cd.RevenueModel+" model")
	}

	if v, ok := firstString(topic, KeyLeadSource); ok {
		facts = append(facts, v+" leads")
	}

	if v, ok := firstNumeric(topic, KeySalesCycleMonths); ok {
		facts = append(facts, fmt.Sprintf("%.0f month sales cycle", v))
	} else if v, ok := firstNumeric(topic, KeySalesCycleDays); ok {
		facts = append(facts, fmt.Sprintf("%.0f day sales cycle", v))
	} else if cd != nil && cd.SalesCycleDays != nil {
		facts = append(facts, fmt.Sprintf("%.0f day sales cycle", *cd.SalesCycleDays))
	}

	if _, ok := firstNumeric(topic, KeyHeadcount); ok {
		facts = append(facts, "headcount known")
	} else if cd != nil && cd.Headcount != nil {
		facts = append(facts, "headcount known")
	}

	return facts
}

// firstNumeric returns the first usable numeric evidence value for any of the
// given keys, scanning questions and evidence in order.
func firstNumeric(topic model.Topic, keys ...string) (float64, bool) {
	for _, q := range topic.KeyQuestions {
		for _, ev := range q.Evidence {
			for _, key := range keys {
				if ev.Key != key {
					continue
				}
				if v, ok := numericValue(ev.Value); ok {
					return v, true
				}
			}
		}
	}
	return 0, false
}

// firstString returns the first non-blank string evidence value for the key.
func firstString(topic model.Topic, key string) (string, bool) {
	for _, q := range topic.KeyQuestions {
		for _, ev := range q.Evidence {
			if ev.Key != key {
				continue
			}
			if s, ok := ev.Value.(string); ok && strings.TrimSpace(s) != "" {
				return s, true
			}
		}
	}
	return "", false
}
