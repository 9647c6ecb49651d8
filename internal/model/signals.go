package model

// ExtractedSignals contains the structured signals pulled from one free-text
// answer. Every field is best-effort; a heuristic that does not match simply
// leaves its field unset.
type ExtractedSignals struct {
	RevenueModel     string   `json:"revenue_model,omitempty"` // "subscription" or "transactional"
	LeadSource       string   `json:"lead_source,omitempty"`   // "paid", "outbound" or "organic"
	Pct1             *float64 `json:"pct_1,omitempty"`         // first percentage occurrence
	Money1           *float64 `json:"money_1,omitempty"`       // first currency-like occurrence
	SalesCycleMonths *float64 `json:"sales_cycle_months,omitempty"`
	SalesCycleDays   *float64 `json:"sales_cycle_days,omitempty"`
	MentionsChurn    bool     `json:"mentions_churn,omitempty"`
	MentionsCAC      bool     `json:"mentions_cac,omitempty"`
}

// Empty reports whether no heuristic matched at all.
func (s ExtractedSignals) Empty() bool {
	return s.RevenueModel == "" && s.LeadSource == "" &&
		s.Pct1 == nil && s.Money1 == nil &&
		s.SalesCycleMonths == nil && s.SalesCycleDays == nil &&
		!s.MentionsChurn && !s.MentionsCAC
}
