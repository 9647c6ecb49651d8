package model

// CashFlowPreview is a flat 6-month projection built from whatever numeric
// evidence exists. Missing inputs default to zero and are reported in Reasons;
// the preview never refuses to compute.
type CashFlowPreview struct {
	Ready   bool                 `json:"ready"`
	Reasons []string             `json:"reasons"`
	Months  []string             `json:"months"`
	Rows    map[string][]float64 `json:"rows"`
}

// Row labels used by the projection engine.
const (
	RowRevenue      = "Revenue"
	RowCOGS         = "COGS"
	RowGrossProfit  = "Gross Profit"
	RowPayroll      = "Payroll"
	RowOpex         = "Opex"
	RowEBITDA       = "EBITDA"
	RowWCAdjustment = "WC Adjustment"
	RowNetCash      = "Net Cash"
)
