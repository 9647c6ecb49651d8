package engine

import (
	"strings"

	"advisor/internal/model"
)

// hydrationRule attaches company-profile fields as evidence to questions whose
// id starts with one of the given prefixes. The coupling to question ids is
// deliberate and kept explicit in this one table: hydration only works for
// outlines whose question ids are known in advance.
type hydrationRule struct {
	idPrefixes []string
	build      func(cd model.CompanyData) []model.Evidence
}

func externalEvidence(key string, value interface{}, confidence float64) model.Evidence {
	return model.Evidence{
		Source:     model.SourceExternalData,
		Key:        key,
		Value:      value,
		Confidence: confidence,
	}
}

var hydrationRules = []hydrationRule{
	{
		idPrefixes: []string{"how_you_charge", "rev_model"},
		build: func(cd model.CompanyData) []model.Evidence {
			if cd.RevenueModel == "" {
				return nil
			}
			return []model.Evidence{externalEvidence(KeyRevenueModel, cd.RevenueModel, 0.9)}
		},
	},
	{
		idPrefixes: []string{"rev_price_or_aov"},
		build: func(cd model.CompanyData) []model.Evidence {
			if cd.AvgOrderValue != nil {
				return []model.Evidence{externalEvidence(KeyPriceOrAOV, *cd.AvgOrderValue, 0.9)}
			}
			if cd.ARPU != nil {
				return []model.Evidence{externalEvidence(KeyPriceOrAOV, *cd.ARPU, 0.9)}
			}
			return nil
		},
	},
	{
		idPrefixes: []string{"rev_volume_driver"},
		build: func(cd model.CompanyData) []model.Evidence {
			if cd.AvgMonthlyOrders != nil {
				return []model.Evidence{externalEvidence(KeyVolume, *cd.AvgMonthlyOrders, 0.85)}
			}
			if cd.ActiveSubscribers != nil {
				return []model.Evidence{externalEvidence(KeyVolume, *cd.ActiveSubscribers, 0.85)}
			}
			return nil
		},
	},
	{
		idPrefixes: []string{"rev_cycle_or_churn"},
		build: func(cd model.CompanyData) []model.Evidence {
			var out []model.Evidence
			if cd.SalesCycleDays != nil {
				out = append(out, externalEvidence(KeySalesCycleDays, *cd.SalesCycleDays, 0.85))
			}
			if cd.ChurnRatePct != nil {
				out = append(out, externalEvidence(KeyChurnRatePct, *cd.ChurnRatePct, 0.85))
			}
			return out
		},
	},
	{
		idPrefixes: []string{"cogs_model"},
		build: func(cd model.CompanyData) []model.Evidence {
			var out []model.Evidence
			if cd.CogsPct != nil {
				out = append(out, externalEvidence(KeyCogsPct, *cd.CogsPct, 0.9))
			}
			if cd.CogsPerUnit != nil {
				out = append(out, externalEvidence(KeyCogsPerUnit, *cd.CogsPerUnit, 0.85))
			}
			return out
		},
	},
	{
		idPrefixes: []string{"current_headcount"},
		build: func(cd model.CompanyData) []model.Evidence {
			if cd.Headcount == nil {
				return nil
			}
			return []model.Evidence{externalEvidence(KeyHeadcount, *cd.Headcount, 0.9)}
		},
	},
	{
		idPrefixes: []string{"payroll_monthly"},
		build: func(cd model.CompanyData) []model.Evidence {
			if cd.PayrollMonthly == nil {
				return nil
			}
			return []model.Evidence{externalEvidence(KeyPayrollMonthly, *cd.PayrollMonthly, 0.85)}
		},
	},
	{
		idPrefixes: []string{"opex_monthly"},
		build: func(cd model.CompanyData) []model.Evidence {
			if cd.OpexMonthly == nil {
				return nil
			}
			return []model.Evidence{externalEvidence(KeyOpexMonthly, *cd.OpexMonthly, 0.85)}
		},
	},
	{
		idPrefixes: []string{"wc_dso"},
		build: func(cd model.CompanyData) []model.Evidence {
			if cd.DSODays == nil {
				return nil
			}
			return []model.Evidence{externalEvidence(KeyDSODays, *cd.DSODays, 0.85)}
		},
	},
	{
		idPrefixes: []string{"wc_dpo"},
		build: func(cd model.CompanyData) []model.Evidence {
			if cd.DPODays == nil {
				return nil
			}
			return []model.Evidence{externalEvidence(KeyDPODays, *cd.DPODays, 0.85)}
		},
	},
	{
		idPrefixes: []string{"wc_inventory_turns"},
		build: func(cd model.CompanyData) []model.Evidence {
			if cd.InventoryDays == nil {
				return nil
			}
			return []model.Evidence{externalEvidence(KeyInventoryDays, *cd.InventoryDays, 0.85)}
		},
	},
}

// HydrateFromCompanyData attaches evidence from the stored company profile to
// every question whose id matches a hydration rule, then recomputes all
// derived fields. One-way: evidence is appended, the profile is never written.
// No-op when the state carries no company data.
func HydrateFromCompanyData(state model.ModelState) model.ModelState {
	if state.CompanyData == nil {
		return RecomputeAll(state)
	}

	next := state.Clone()
	cd := *next.CompanyData

	for ti := range next.Topics {
		for qi := range next.Topics[ti].KeyQuestions {
			q := &next.Topics[ti].KeyQuestions[qi]
			for _, rule := range hydrationRules {
				if !matchesPrefix(q.ID, rule.idPrefixes) {
					continue
				}
				q.Evidence = append(q.Evidence, rule.build(cd)...)
			}
		}
	}

	return RecomputeAll(next)
}

func matchesPrefix(id string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(id, p) {
			return true
		}
	}
	return false
}
