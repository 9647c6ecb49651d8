package engine

import (
	"time"

	"advisor/internal/model"
)

const projectionMonths = 6

// projectionInputs are the numeric assumptions the projection runs on.
// Missing values stay zero; reasons record what was missing.
type projectionInputs struct {
	price   float64
	volume  float64
	cogsPct float64
	payroll float64
	opex    float64

	// optional working-capital assumptions
	dsoDays       float64
	dpoDays       float64
	inventoryDays float64

	hasPrice  bool
	hasVolume bool
	reasons   []string
}

// BuildCashFlowPreview builds a flat 6-month projection from whatever numeric
// evidence is present, falling back to company-data fields, and reports
// missing assumptions as reasons instead of failing. Month labels start at the
// current calendar month; everything else is deterministic.
func BuildCashFlowPreview(state model.ModelState) model.CashFlowPreview {
	return buildCashFlowPreviewAt(state, time.Now())
}

func buildCashFlowPreviewAt(state model.ModelState, ref time.Time) model.CashFlowPreview {
	in := gatherProjectionInputs(state)

	months := make([]string, projectionMonths)
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := range months {
		months[i] = start.AddDate(0, i, 0).Format("Jan 2006")
	}

	revenue := in.price * in.volume
	cogs := revenue * in.cogsPct / 100
	gross := revenue - cogs
	ebitda := gross - in.payroll - in.opex

	// Working-capital adjustment from DSO/DPO/inventory days, spread evenly
	// across the horizon.
	wcTotal := -revenue/30*in.dsoDays + cogs/30*in.dpoDays - cogs/30*in.inventoryDays
	wcMonthly := wcTotal / projectionMonths

	netCash := ebitda + wcMonthly

	rows := map[string][]float64{
		model.RowRevenue:      flatRow(revenue),
		model.RowCOGS:         flatRow(cogs),
		model.RowGrossProfit:  flatRow(gross),
		model.RowPayroll:      flatRow(in.payroll),
		model.RowOpex:         flatRow(in.opex),
		model.RowEBITDA:       flatRow(ebitda),
		model.RowWCAdjustment: flatRow(wcMonthly),
		model.RowNetCash:      flatRow(netCash),
	}

	reasons := in.reasons
	if reasons == nil {
		reasons = []string{}
	}

	return model.CashFlowPreview{
		// Approximate gate: a few missing assumptions are tolerated as long as
		// the two revenue drivers are present.
		Ready:   len(reasons) <= 2 && in.hasPrice && in.hasVolume,
		Reasons: reasons,
		Months:  months,
		Rows:    rows,
	}
}

func flatRow(v float64) []float64 {
	row := make([]float64, projectionMonths)
	for i := range row {
		row[i] = v
	}
	return row
}

// gatherProjectionInputs locates the known topics by id and pulls the first
// matching numeric evidence for each required input, falling back to the
// company profile when evidence is absent.
func gatherProjectionInputs(state model.ModelState) projectionInputs {
	var in projectionInputs
	cd := state.CompanyData

	revenue := state.TopicByID("revenue")
	cogs := state.TopicByID("cogs")
	payroll := state.TopicByID("team_payroll")
	opex := state.TopicByID("operating_expenses")
	wc := state.TopicByID("working_capital")

	miss := func(reason string) { in.reasons = append(in.reasons, reason) }

	if v, ok := topicNumeric(revenue, KeyPriceOrAOV); ok {
		in.price, in.hasPrice = v, true
	} else if cd != nil && cd.AvgOrderValue != nil {
		in.price, in.hasPrice = *cd.AvgOrderValue, true
	} else if cd != nil && cd.ARPU != nil {
		in.price, in.hasPrice = *cd.ARPU, true
	} else {
		miss("missing price or AOV; revenue assumed 0")
	}

	if v, ok := topicNumeric(revenue, KeyVolume); ok {
		in.volume, in.hasVolume = v, true
	} else if cd != nil && cd.AvgMonthlyOrders != nil {
		in.volume, in.hasVolume = *cd.AvgMonthlyOrders, true
	} else if cd != nil && cd.ActiveSubscribers != nil {
		in.volume, in.hasVolume = *cd.ActiveSubscribers, true
	} else {
		miss("missing monthly volume driver; revenue assumed 0")
	}

	if v, ok := topicNumeric(cogs, KeyCogsPct, KeyPercentage); ok {
		in.cogsPct = v
	} else if cd != nil && cd.CogsPct != nil {
		in.cogsPct = *cd.CogsPct
	} else {
		miss("missing COGS percentage; gross margin assumed 100%")
	}

	if v, ok := topicNumeric(payroll, KeyPayrollMonthly); ok {
		in.payroll = v
	} else if cd != nil && cd.PayrollMonthly != nil {
		in.payroll = *cd.PayrollMonthly
	} else {
		miss("missing monthly payroll baseline; assumed 0")
	}

	if v, ok := topicNumeric(opex, KeyOpexMonthly); ok {
		in.opex = v
	} else if cd != nil && cd.OpexMonthly != nil {
		in.opex = *cd.OpexMonthly
	} else {
		miss("missing monthly opex baseline; assumed 0")
	}

	// Working-capital assumptions are optional: absent values contribute no
	// adjustment and no reason.
	if v, ok := topicNumeric(wc, KeyDSODays); ok {
		in.dsoDays = v
	} else if cd != nil && cd.DSODays != nil {
		in.dsoDays = *cd.DSODays
	}
	if v, ok := topicNumeric(wc, KeyDPODays); ok {
		in.dpoDays = v
	} else if cd != nil && cd.DPODays != nil {
		in.dpoDays = *cd.DPODays
	}
	if v, ok := topicNumeric(wc, KeyInventoryDays); ok {
		in.inventoryDays = v
	} else if cd != nil && cd.InventoryDays != nil {
		in.inventoryDays = *cd.InventoryDays
	}

	return in
}

func topicNumeric(t *model.Topic, keys ...string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	return firstNumeric(*t, keys...)
}
