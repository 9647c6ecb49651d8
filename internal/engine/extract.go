package engine

import (
	"regexp"
	"strconv"
	"strings"

	"advisor/internal/model"
)

// Signal names recorded into ModelState.CrossSignals.
const (
	SignalRevenueModel     = "revenue_model"
	SignalLeadSource       = "lead_source"
	SignalPercentage       = "percentage"
	SignalMoney            = "money"
	SignalSalesCycleMonths = "sales_cycle_months"
	SignalSalesCycleDays   = "sales_cycle_days"
	SignalMentionsChurn    = "mentions_churn"
	SignalMentionsCAC      = "mentions_cac"
)

// categoricalRule maps a vocabulary pattern to a categorical signal value.
// Rules are evaluated in order; for revenue model the last matching rule wins,
// for lead source the first matching rule wins.
type categoricalRule struct {
	pattern *regexp.Regexp
	value   string
}

var revenueModelRules = []categoricalRule{
	{regexp.MustCompile(`(?i)\b(subscription|recurring|saas)\b`), "subscription"},
	{regexp.MustCompile(`(?i)\b(transactional|per[- ]orders?|per[- ]units?|one[- ]time)\b`), "transactional"},
}

var leadSourceRules = []categoricalRule{
	{regexp.MustCompile(`(?i)\b(paid ads?|google ads|meta ads|facebook ads|ppc|adwords|ad spend|paid)\b`), "paid"},
	{regexp.MustCompile(`(?i)\b(outbound|cold calls?|cold email|sdr|prospecting)\b`), "outbound"},
	{regexp.MustCompile(`(?i)\b(organic|seo|content|word of mouth|referrals?)\b`), "organic"},
}

var (
	pctRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s?%`)
	// Currency-like: optional "$", digit groups with optional thousands commas,
	// optional decimals ("$49.99", "$1,200", "1,200.50", "49.99", "100").
	moneyRe = regexp.MustCompile(`\$\s?(\d+(?:,\d{3})*(?:\.\d+)?)|\b(\d+(?:,\d{3})*(?:\.\d+)?)\b`)
	// Bare numbers claimed by the percent or sales-cycle heuristics ("25%",
	// "3 months", "45 days") are not money.
	notMoneyRe = regexp.MustCompile(`^\s?(?:%|(?i:months?|days?)\b)`)
	monthsRe   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s?months?\b`)
	daysRe     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s?days?\b`)
	churnRe    = regexp.MustCompile(`(?i)\bchurn`)
	cacRe      = regexp.MustCompile(`(?i)\bcac\b`)
)

// ExtractSignals scans one free-text answer and returns whatever typed signals
// its heuristics find. Extraction is best-effort and order-insensitive across
// heuristics: an unmatched pattern simply leaves its field unset, and
// extraction never fails.
func ExtractSignals(text string) model.ExtractedSignals {
	var sig model.ExtractedSignals

	for _, rule := range revenueModelRules {
		if rule.pattern.MatchString(text) {
			sig.RevenueModel = rule.value
		}
	}

	for _, rule := range leadSourceRules {
		if rule.pattern.MatchString(text) {
			sig.LeadSource = rule.value
			break
		}
	}

	if m := pctRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			sig.Pct1 = &v
		}
	}

	for _, idx := range moneyRe.FindAllStringSubmatchIndex(text, -1) {
		var raw string
		if idx[2] >= 0 {
			raw = text[idx[2]:idx[3]]
		} else {
			// Bare number: skip it when a unit heuristic owns it.
			if notMoneyRe.MatchString(text[idx[5]:]) {
				continue
			}
			raw = text[idx[4]:idx[5]]
		}
		raw = strings.ReplaceAll(raw, ",", "")
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			sig.Money1 = &v
			break
		}
	}

	// Months take priority over days for the sales cycle.
	if m := monthsRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			sig.SalesCycleMonths = &v
		}
	} else if m := daysRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			sig.SalesCycleDays = &v
		}
	}

	sig.MentionsChurn = churnRe.MatchString(text)
	sig.MentionsCAC = cacRe.MatchString(text)

	return sig
}
